package cmd

import (
	"errors"

	"github.com/LasmGratel/mod-compability-checker/internal/diff"
	"github.com/LasmGratel/mod-compability-checker/internal/fingerprint"
	"github.com/LasmGratel/mod-compability-checker/internal/logging"
	"github.com/spf13/cobra"
)

var errSetsDiffer = errors.New("mod sets differ")

var diffShowUnchanged bool

var diffCmd = &cobra.Command{
	Use:   "diff <local> <remote>",
	Short: "Show which required mods differ between two directories",
	Args:  usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := scanDir(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		remote, err := scanDir(cmd.Context(), args[1])
		if err != nil {
			return err
		}

		changes := diff.Compute(
			fingerprint.Collect(local).Records(),
			fingerprint.Collect(remote).Records(),
		)
		printChanges(changes, diffShowUnchanged)

		added, removed, updated, unchanged := diff.Summary(changes)
		logging.Infof("\n%d added, %d removed, %d updated, %d unchanged\n", added, removed, updated, unchanged)
		if added+removed+updated > 0 {
			return errSetsDiffer
		}
		return nil
	},
}

func printChanges(changes []diff.ModChange, showUnchanged bool) {
	for _, c := range changes {
		switch c.Type {
		case diff.Added:
			logging.Infof("  %s %s %s (%s)\n", c.Type.Symbol(), c.ID, c.RemoteVersion, c.RemoteFile)
		case diff.Removed:
			logging.Infof("  %s %s %s (%s)\n", c.Type.Symbol(), c.ID, c.LocalVersion, c.LocalFile)
		case diff.Updated:
			logging.Infof("  %s %s %s -> %s\n", c.Type.Symbol(), c.ID, c.LocalVersion, c.RemoteVersion)
		case diff.Unchanged:
			if showUnchanged {
				logging.Infof("  %s %s %s\n", c.Type.Symbol(), c.ID, c.LocalVersion)
			}
		}
	}
}

func init() {
	diffCmd.Flags().BoolVar(&diffShowUnchanged, "unchanged", false, "Also print mods that match")
	rootCmd.AddCommand(diffCmd)
}
