package dumpparser

import (
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/cgview/internal/cgerrors"
	"github.com/standardbeagle/cgview/internal/costgraph"
	"github.com/standardbeagle/cgview/internal/subcost"
)

// Load opens every path concurrently (bounded by concurrency) and then
// parses each into data in order, one at a time. Graph mutation stays
// single-threaded — only the disk reads overlap — so a slow file doesn't
// stall the others while they're still just bytes in memory. Errors from
// individual files are collected rather than aborting the whole run.
func Load(data *costgraph.Data, paths []string, logger cgerrors.Loader, concurrency int) ([]*costgraph.Part, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	opened := make([]*subcost.FixFile, len(paths))
	openErrs := make([]error, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			ff, err := subcost.OpenFixFile(path)
			if err != nil {
				openErrs[i] = &cgerrors.LoaderError{Path: path, Err: err}
				return nil
			}
			opened[i] = ff
			return nil
		})
	}
	_ = g.Wait() // individual errors are recorded per-index above, never aborts

	p := New(data, logger)
	var multi cgerrors.MultiError
	parts := make([]*costgraph.Part, 0, len(paths))

	for i, ff := range opened {
		if openErrs[i] != nil {
			logger.LoadStart(paths[i])
			logger.LoadFinished(paths[i], openErrs[i])
			multi.Add(openErrs[i])
			continue
		}
		part, err := p.ParseOpened(ff)
		if err != nil {
			multi.Add(err)
			continue
		}
		parts = append(parts, part)
	}

	return parts, multi.ErrOrNil()
}
