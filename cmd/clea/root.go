package main

import (
	"github.com/spf13/cobra"

	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
)

type rootOptions struct {
	configFile string
	logLevel   string
	protocol   string

	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "clea",
		Short:        "Cluster exposure verification QR code toolkit",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := lsp.ParseProtocol(opts.protocol); err != nil {
				return err
			}

			// 日志写入 stderr，stdout 只输出结果
			logger, err := log.NewFromConfig(log.Config{Level: opts.logLevel})
			if err != nil {
				return err
			}
			opts.logger = logger
			log.SetGlobalLogger(logger)
			return nil
		},
	}

	// 全局参数
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "venue configuration file (default ./clea.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error, disabled")
	cmd.PersistentFlags().StringVar(&opts.protocol, "protocol", "country-code", "message layout: country-code, reserved")

	cmd.AddCommand(newGenKeysCmd())
	cmd.AddCommand(newEncodeCmd(opts))
	cmd.AddCommand(newDecodeCmd(opts))
	cmd.AddCommand(newEmitCmd(opts))

	return cmd
}

func (o *rootOptions) parseProtocol() lsp.Protocol {
	p, _ := lsp.ParseProtocol(o.protocol)
	return p
}
