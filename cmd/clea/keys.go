package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kochabx/clea/core/crypto/ecies"
)

// newGenKeysCmd prints a fresh P-256 key pair.
func newGenKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-keys",
		Short: "Generate an authority key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, pub, err := ecies.GenerateKeyPair(rand.Reader)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Clea EC Private Key: %s\n", priv)
			fmt.Fprintf(cmd.OutOrStdout(), "Clea EC Public Key : %s\n", pub)
			return nil
		},
	}
}
