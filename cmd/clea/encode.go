package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kochabx/clea/emitter"
	"github.com/kochabx/clea/location"
	"github.com/kochabx/clea/lsp"
)

type encodeOptions struct {
	venue       emitter.VenueConfig
	exponent    int
	countryCode int
	keys        emitter.KeysConfig
	contact     emitter.ContactConfig
	periodStart string
}

// newEncodeCmd renders one deep link for the current hour.
func newEncodeCmd(root *rootOptions) *cobra.Command {
	o := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a venue QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if o.periodStart != "" {
				t, err := time.Parse(time.RFC3339, o.periodStart)
				if err != nil {
					return fmt.Errorf("--period-start: %w", err)
				}
				now = t
			}

			o.venue.RenewalIntervalExponent = &o.exponent
			if cmd.Flags().Changed("country-code") {
				o.venue.CountryCode = &o.countryCode
			}
			cfg := emitter.Config{
				Protocol: root.protocol,
				Keys:     o.keys,
				Venue:    o.venue,
			}
			if o.contact.Phone != "" {
				c := o.contact
				cfg.Contact = &c
			}

			loc, err := cfg.Location(
				location.WithClock(func() time.Time { return now }),
				location.WithLogger(root.logger.Component("location")),
			)
			if err != nil {
				return err
			}

			link, err := loc.NewDeepLink()
			if err != nil {
				return err
			}
			part := loc.LocationSpecificPart()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, link)
			fmt.Fprintf(out, "=VALUES=%s %s %d %d %x\n",
				strings.TrimPrefix(link, location.DeepLinkPrefix),
				part.TemporaryPublicID,
				part.CompressedPeriodStart,
				part.QRValidityStart,
				part.TemporarySecretKey,
			)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.venue.Staff, "staff", false, "staff QR code")
	f.IntVar(&o.exponent, "cri", lsp.NoRenewal, "QR renewal interval exponent, 31 for no renewal")
	f.IntVar(&o.venue.VenueType, "venue-type", 0, "venue type")
	f.IntVar(&o.venue.VenueCategory1, "cat1", 0, "venue category 1")
	f.IntVar(&o.venue.VenueCategory2, "cat2", 0, "venue category 2")
	f.IntVar(&o.venue.PeriodDuration, "period-duration", 24, "period duration in hours")
	f.IntVar(&o.countryCode, "country-code", 0, fmt.Sprintf("country calling code (default %d, 0 under --protocol reserved)", lsp.DefaultCountryCode))
	f.StringVar(&o.keys.ServerAuthority, "sa-pub", "", "server authority public key (hex)")
	f.StringVar(&o.keys.ManualContactTracing, "mcta-pub", "", "manual contact tracing authority public key (hex)")
	f.StringVar(&o.keys.Permanent, "permanent-key", "", "permanent location secret key (hex)")
	f.StringVar(&o.contact.Phone, "phone", "", "venue contact phone number")
	f.IntVar(&o.contact.Region, "region", 0, "venue contact region")
	f.StringVar(&o.contact.PIN, "pin", "", "venue contact PIN, six digits")
	f.StringVar(&o.periodStart, "period-start", "", "period start as RFC 3339, truncated to the hour (default now)")
	_ = cmd.MarkFlagRequired("sa-pub")
	_ = cmd.MarkFlagRequired("permanent-key")
	cmd.MarkFlagsRequiredTogether("phone", "pin")

	return cmd
}
