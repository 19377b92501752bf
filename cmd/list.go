package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/LasmGratel/mod-compability-checker/internal/logging"
	"github.com/LasmGratel/mod-compability-checker/internal/mod"
	"github.com/spf13/cobra"
)

var (
	listJSON bool
	listAll  bool
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List the mods found in a directory",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := targetDir(args)
		records, err := scanDir(cmd.Context(), dir)
		if err != nil {
			return err
		}
		if !listAll {
			records = requiredOnly(records)
		}

		out, err := renderRecords(records, listJSON)
		if err != nil {
			return err
		}
		logging.Infof("%s", out)
		return nil
	},
}

func requiredOnly(records []mod.Record) []mod.Record {
	out := make([]mod.Record, 0, len(records))
	for _, r := range records {
		if r.Category.Fingerprinted() {
			out = append(out, r)
		}
	}
	return out
}

func renderRecords(records []mod.Record, asJSON bool) (string, error) {
	if asJSON {
		if records == nil {
			records = []mod.Record{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding records: %w", err)
		}
		return string(data) + "\n", nil
	}

	if len(records) == 0 {
		return "No mods found.\n", nil
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVERSION\tCATEGORY\tFILE")
	for _, r := range records {
		v := r.Version
		if !r.HasVersion {
			v = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, v, r.Category.Label(), r.SourceFile)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print records as JSON")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include client-only and any-remote mods")
	rootCmd.AddCommand(listCmd)
}
