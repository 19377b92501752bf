package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/LasmGratel/mod-compability-checker/internal/fingerprint"
	"github.com/LasmGratel/mod-compability-checker/internal/logging"
	"github.com/LasmGratel/mod-compability-checker/internal/mod"
	"github.com/LasmGratel/mod-compability-checker/internal/scan"
	"github.com/schollz/progressbar/v3"
)

// scanDir classifies every archive in dir using the global scan flags.
func scanDir(ctx context.Context, dir string) ([]mod.Record, error) {
	names, err := scan.Discover(dir)
	if err != nil {
		return nil, err
	}

	opts := scan.Options{
		Threads:  threads,
		OnRecord: reportRecord,
	}
	if progress && len(names) > 0 {
		bar := progressbar.NewOptions(len(names),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Scanning "+dir),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		opts.OnProgress = func(scan.Progress) {
			_ = bar.Add(1)
		}
	}

	return scan.Process(ctx, dir, names, opts)
}

// digestDir scans dir and folds its required mods into a digest.
func digestDir(ctx context.Context, dir string, mode fingerprint.Mode) (fingerprint.Digest, []mod.Record, error) {
	records, err := scanDir(ctx, dir)
	if err != nil {
		return fingerprint.Digest{}, nil, err
	}
	set := fingerprint.Collect(records)
	logging.Debugf("Verbose: hashing %d required mods (%s)\n", set.Len(), mode)

	d, err := fingerprint.Compute(dir, set, mode)
	if err != nil {
		return fingerprint.Digest{}, nil, fmt.Errorf("hashing %s: %w", dir, err)
	}
	return d, records, nil
}

func reportRecord(r mod.Record) {
	if r.Category.Fingerprinted() {
		return
	}
	logging.Debugf("Verbose: skipping %s\n", r)
}
