package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/LasmGratel/mod-compability-checker/internal/logging"
	"github.com/LasmGratel/mod-compability-checker/internal/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved option profiles",
}

// Flags for profile create
var (
	profDir      *string
	profThreads  *int
	profStrict   *bool
	profDirty    *bool
	profVerbose  *bool
	profProgress *bool
	profLogFile  *string
)

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &profile.Profile{}

		if cmd.Flags().Changed("dir") {
			p.Dir = profDir
		}
		if cmd.Flags().Changed("threads") {
			if *profThreads < 1 {
				return wrapUsageError(fmt.Errorf("--threads must be at least 1, got %d", *profThreads))
			}
			p.Threads = profThreads
		}
		if cmd.Flags().Changed("strict") {
			p.Strict = profStrict
		}
		if cmd.Flags().Changed("dirty") {
			p.Dirty = profDirty
		}
		if cmd.Flags().Changed("verbose") {
			p.Verbose = profVerbose
		}
		if cmd.Flags().Changed("progress") {
			p.Progress = profProgress
		}
		if cmd.Flags().Changed("log-file") {
			p.LogFile = profLogFile
		}

		if err := profile.Save(args[0], p); err != nil {
			return err
		}
		logging.Infof("Profile %q saved to %s\n", args[0], profile.Dir())
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := profile.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			logging.Infoln("No profiles saved.")
			return nil
		}
		for _, n := range names {
			logging.Infoln(n)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's contents",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return err
		}
		logging.Infof("%s", buf.String())
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved profile",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := profile.Delete(args[0]); err != nil {
			return err
		}
		logging.Infof("Profile %q deleted.\n", args[0])
		return nil
	},
}

func init() {
	// Local flags shadow the root's persistent ones so that a profile can be
	// written without affecting the current run.
	profDir = profileCreateCmd.Flags().String("dir", "", "Mods directory to scan by default")
	profThreads = profileCreateCmd.Flags().IntP("threads", "j", runtime.NumCPU(), "Number of archives to scan concurrently")
	profStrict = profileCreateCmd.Flags().Bool("strict", false, "Hash jar file contents")
	profDirty = profileCreateCmd.Flags().BoolP("dirty", "d", false, "Write the marker file after hashing")
	profVerbose = profileCreateCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	profProgress = profileCreateCmd.Flags().Bool("progress", false, "Show a progress bar while scanning")
	profLogFile = profileCreateCmd.Flags().String("log-file", "", "Log file to write command output to")

	profileCmd.AddCommand(profileCreateCmd, profileListCmd, profileShowCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
