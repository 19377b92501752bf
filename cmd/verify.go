package cmd

import (
	"fmt"

	"github.com/LasmGratel/mod-compability-checker/internal/fingerprint"
	"github.com/LasmGratel/mod-compability-checker/internal/logging"
	"github.com/LasmGratel/mod-compability-checker/internal/marker"
	"github.com/spf13/cobra"
)

var verifyExpect string

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Check a directory against a saved or given hash",
	Long: `Recompute the hash of a mods directory and compare it with --expect, or with
the .sha (.strict-sha with --strict) marker written by an earlier --dirty run.`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := targetDir(args)
		mode := hashMode()

		var want fingerprint.Digest
		if verifyExpect != "" {
			d, err := fingerprint.ParseDigest(verifyExpect)
			if err != nil {
				return wrapUsageError(fmt.Errorf("--expect: %w", err))
			}
			want = d
		} else {
			d, err := marker.Read(dir, mode)
			if err != nil {
				return err
			}
			want = d
		}

		got, _, err := digestDir(cmd.Context(), dir, mode)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("mod set in %s does not match: got %s, want %s", dir, got, want)
		}
		logging.Infof("OK %s\n", got)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyExpect, "expect", "", "Expected hash in hex (default: read the marker file)")
	rootCmd.AddCommand(verifyCmd)
}
