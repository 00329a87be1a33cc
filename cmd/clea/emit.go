package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kochabx/clea/app"
	"github.com/kochabx/clea/config"
	"github.com/kochabx/clea/emitter"
	"github.com/kochabx/clea/log"
)

// envPrefix prefixes environment overrides, e.g. CLEA_VENUE_VENUE_TYPE.
const envPrefix = "CLEA"

// newEmitCmd runs the venue display until a signal arrives, writing every
// new deep link to stdout.
func newEmitCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "emit",
		Short: "Run the venue display",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := new(emitter.Config)

			copts := []config.Option{
				config.WithEnvPrefix(envPrefix),
				config.WithLogger(root.logger.Component("config")),
			}
			if root.configFile != "" {
				copts = append(copts, config.WithFile(root.configFile))
			}
			c := config.New(cfg, copts...)
			if err := c.Load(); err != nil {
				return err
			}
			root.override(cmd, cfg)

			logger, err := log.NewFromConfig(cfg.Log)
			if err != nil {
				return err
			}
			log.SetGlobalLogger(logger)

			e, err := emitter.New(*cfg, emitter.WriterSink(cmd.OutOrStdout()),
				emitter.WithLogger(logger.Component("emitter")),
			)
			if err != nil {
				return err
			}

			err = c.Watch(func() {
				c.Read(func(target any) {
					next := *target.(*emitter.Config)
					root.override(cmd, &next)
					e.Reload(next)
				})
			})
			if err != nil {
				return err
			}

			return app.New(
				app.WithContext(cmd.Context()),
				app.WithLogger(logger.Component("app")),
				app.WithRunner(e),
				app.WithClose("logger", func(context.Context) error { return logger.Close() }, 0),
			).Start()
		},
	}
}

// override applies explicitly set global flags on top of the file.
func (o *rootOptions) override(cmd *cobra.Command, cfg *emitter.Config) {
	if f := cmd.Flag("protocol"); f != nil && f.Changed {
		cfg.Protocol = o.protocol
	}
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		cfg.Log.Level = o.logLevel
	}
}
