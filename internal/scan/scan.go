// Package scan runs the classification pipeline over every archive in a
// mods directory using a bounded pool of workers.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/LasmGratel/mod-compability-checker/internal/classify"
	"github.com/LasmGratel/mod-compability-checker/internal/jar"
	"github.com/LasmGratel/mod-compability-checker/internal/logging"
	"github.com/LasmGratel/mod-compability-checker/internal/mod"
	"github.com/LasmGratel/mod-compability-checker/internal/modinfo"
)

// ArchiveExt is the extension of candidate archives.
const ArchiveExt = ".jar"

// ErrWorker marks a worker that died without reporting a regular error.
var ErrWorker = errors.New("scan worker failed")

// ArchiveError ties a failure to the archive that caused it.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

type Progress struct {
	Completed int64
	Total     int64
}

type Options struct {
	// Threads bounds the number of archives processed at once. Values below
	// one mean runtime.NumCPU().
	Threads int
	// OnRecord is called from the collecting goroutine for every record.
	OnRecord func(mod.Record)
	// OnProgress is called after each archive finishes, possibly from
	// several workers at once.
	OnProgress func(Progress)
}

// Discover lists the archive file names directly inside dir, sorted.
// Subdirectories are not descended into. dir itself may be a symlink but
// must resolve to a directory.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", jar.ErrIO, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", jar.ErrIO, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", jar.ErrIO, dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ArchiveExt) {
			continue
		}
		if !e.Type().IsRegular() {
			// Follow symlinks; skip anything else that is not a file.
			fi, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", jar.ErrIO, e.Name(), err)
			}
			if !fi.Mode().IsRegular() {
				continue
			}
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Run discovers and processes every archive in dir.
func Run(ctx context.Context, dir string, opts Options) ([]mod.Record, error) {
	names, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	return Process(ctx, dir, names, opts)
}

// Process classifies the named archives inside dir. Records are returned
// in canonical order no matter which worker finished first. The first
// failure cancels the remaining work and no records are returned.
func Process(ctx context.Context, dir string, names []string, opts Options) ([]mod.Record, error) {
	threads := opts.Threads
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	threads = min(threads, max(len(names), 1))

	logging.Debugf("Verbose: scan start dir=%q archives=%d threads=%d\n", dir, len(names), threads)

	total := int64(len(names))
	var completed atomic.Int64

	work := make(chan string, len(names))
	for _, name := range names {
		work <- name
	}
	close(work)

	results := make(chan mod.Record, threads*4)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < threads; w++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v", ErrWorker, r)
				}
			}()

			for name := range work {
				if err := ctx.Err(); err != nil {
					return err
				}
				path := filepath.Join(dir, name)
				records, err := processArchive(path, name)
				if err != nil {
					return &ArchiveError{Path: path, Err: err}
				}
				for _, r := range records {
					select {
					case results <- r:
					case <-ctx.Done():
						return ctx.Err()
					}
				}

				n := completed.Add(1)
				if opts.OnProgress != nil {
					opts.OnProgress(Progress{Completed: n, Total: total})
				}
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(results)
	}()

	var collected []mod.Record
	for r := range results {
		if opts.OnRecord != nil {
			opts.OnRecord(r)
		}
		collected = append(collected, r)
	}
	if err := <-done; err != nil {
		return nil, err
	}

	slices.SortFunc(collected, mod.Compare)
	logging.Debugf("Verbose: scan complete records=%d\n", len(collected))
	return collected, nil
}

// processArchive runs detection, extraction and classification for one file.
func processArchive(path, name string) ([]mod.Record, error) {
	if s, ok := modinfo.SpecialCase(name); ok {
		logging.Debugf("Verbose: special-cased archive %s as %s\n", name, s.ID)
		return []mod.Record{classify.Special(name, s)}, nil
	}

	r, err := jar.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	format := modinfo.Detect(r)
	md, err := modinfo.Extract(format, r)
	if err != nil {
		return nil, err
	}
	records := classify.Classify(name, format, md)
	logging.Debugf("Verbose: classified %s format=%s records=%d\n", name, format, len(records))
	return records, nil
}
