package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kochabx/clea/authority"
	"github.com/kochabx/clea/core/crypto/ecies"
)

// newDecodeCmd decodes deep links or bare base64 parts for the server
// authority, in input order.
func newDecodeCmd(root *rootOptions) *cobra.Command {
	var saPriv, mctaPriv string

	cmd := &cobra.Command{
		Use:   "decode <link|b64>...",
		Short: "Decode venue QR codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := authority.Config{}

			sa, err := ecies.ParsePrivateKeyHex(saPriv)
			if err != nil {
				return err
			}
			defer sa.Destroy()
			cfg.ServerAuthorityKey = sa

			if mctaPriv != "" {
				mcta, err := ecies.ParsePrivateKeyHex(mctaPriv)
				if err != nil {
					return err
				}
				defer mcta.Destroy()
				cfg.ManualContactTracingKey = mcta
			}

			a, err := authority.New(cfg,
				authority.WithProtocol(root.parseProtocol()),
				authority.WithLogger(root.logger.Component("authority")),
			)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.DecodeAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			failed := 0
			for i, r := range results {
				if r.Err != nil {
					failed++
					root.logger.Debug().Err(r.Err).Int("index", i).Msg("decode failed")
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[i], authority.PublicMessage(r.Err))
					continue
				}
				printValues(cmd.OutOrStdout(), r.Decoded)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d codes could not be decoded", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&saPriv, "sa-priv", "", "server authority private key (hex)")
	cmd.Flags().StringVar(&mctaPriv, "mcta-priv", "", "manual contact tracing authority private key (hex)")
	_ = cmd.MarkFlagRequired("sa-priv")

	return cmd
}

func printValues(w io.Writer, d authority.Decoded) {
	p := d.LSP
	staff := 0
	if p.Staff {
		staff = 1
	}

	fmt.Fprintf(w, "=VALUES=%d %d %d %d %d %d %s %d %d %x",
		staff,
		p.RenewalIntervalExponent,
		p.VenueType,
		p.VenueCategory1,
		p.VenueCategory2,
		p.PeriodDuration,
		p.TemporaryPublicID,
		p.CompressedPeriodStart,
		p.QRValidityStart,
		p.TemporarySecretKey,
	)
	if d.Contact != nil {
		fmt.Fprintf(w, " %s %d %s", d.Contact.Phone, d.Contact.Region, d.Contact.PIN)
	}
	fmt.Fprintln(w)
}
