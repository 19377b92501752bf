package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/LasmGratel/mod-compability-checker/internal/fingerprint"
	"github.com/LasmGratel/mod-compability-checker/internal/logging"
	"github.com/LasmGratel/mod-compability-checker/internal/marker"
	"github.com/LasmGratel/mod-compability-checker/internal/profile"
	"github.com/spf13/cobra"
)

var (
	threads     int
	strict      bool
	verbose     bool
	progress    bool
	profileName string
	logFile     string
	dirty       bool

	// profileDir is the mods directory from the active profile, if any.
	profileDir string
)

var rootCmd = &cobra.Command{
	Use:   "mod-compability-checker [dir]",
	Short: "Fingerprint the mods installed in a directory",
	Long: `Compute an order-independent hash of the mods in a directory of jar files.

Two directories holding the same required mods at the same versions produce
the same hash, so a client and a server can compare hashes to check that
their mod sets are compatible. Client-only mods and mods that accept any
remote version are left out of the hash.`,
	Args:          usageArgs(cobra.MaximumNArgs(1)),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Apply profile defaults for flags not explicitly set by the user.
		profileDir = ""
		if profileName != "" {
			p, err := profile.Load(profileName)
			if err != nil {
				return err
			}
			if p.Dir != nil {
				profileDir = *p.Dir
			}
			if p.Threads != nil && !cmd.Flags().Changed("threads") {
				threads = *p.Threads
			}
			if p.Strict != nil && !cmd.Flags().Changed("strict") {
				strict = *p.Strict
			}
			if p.Dirty != nil && !cmd.Flags().Changed("dirty") {
				dirty = *p.Dirty
			}
			if p.Verbose != nil && !cmd.Flags().Changed("verbose") {
				verbose = *p.Verbose
			}
			if p.Progress != nil && !cmd.Flags().Changed("progress") {
				progress = *p.Progress
			}
			if p.LogFile != nil && !cmd.Flags().Changed("log-file") {
				logFile = *p.LogFile
			}
		}
		if threads < 1 {
			return wrapUsageError(fmt.Errorf("--threads must be at least 1, got %d", threads))
		}

		logging.SetVerbose(verbose)
		if err := logging.SetOutputFile(logFile); err != nil {
			return fmt.Errorf("opening log file %q: %w", logFile, err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := targetDir(args)
		mode := hashMode()

		d, _, err := digestDir(cmd.Context(), dir, mode)
		if err != nil {
			return err
		}
		if dirty {
			if err := marker.Write(dir, mode, d); err != nil {
				return err
			}
			logging.Debugf("Verbose: wrote %s in %s\n", marker.FileName(mode), dir)
		}

		logging.Infoln(d.String())
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	closeErr := logging.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", closeErr)
		if err == nil {
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			if cmd, _, findErr := rootCmd.Find(os.Args[1:]); findErr == nil && cmd != nil {
				_ = cmd.Usage()
			} else {
				_ = rootCmd.Usage()
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return wrapUsageError(err)
	})

	rootCmd.PersistentFlags().IntVarP(&threads, "threads", "j", runtime.NumCPU(), "Number of archives to scan concurrently")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Hash jar file contents instead of modid:version lines")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "List client-only and any-remote mods while scanning")
	rootCmd.PersistentFlags().BoolVar(&progress, "progress", false, "Show a progress bar on stderr while scanning")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Load a saved option profile by name")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write command output to a log file")
	rootCmd.Flags().BoolVarP(&dirty, "dirty", "d", false, "Write the hash to .sha (or .strict-sha) in the scanned directory")
}

// targetDir picks the directory to scan: the positional argument, then the
// profile's dir, then the working directory.
func targetDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if profileDir != "" {
		return profileDir
	}
	return "."
}

func hashMode() fingerprint.Mode {
	if strict {
		return fingerprint.Strict
	}
	return fingerprint.Identity
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func wrapUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if validate == nil {
			return nil
		}
		if err := validate(cmd, args); err != nil {
			return wrapUsageError(err)
		}
		return nil
	}
}

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}

	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command ")
}
