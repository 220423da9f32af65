// Package monitor polls a directory tree and reports files that were created,
// modified or deleted between two scans.
package monitor

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ansel1/merry"
)

type Kind string

const (
	Created  Kind = "CREATED"
	Modified Kind = "MODIFIED"
	Deleted  Kind = "DELETED"
)

type Change struct {
	Path string
	Kind Kind
}

// Snapshot maps file paths to their modification times.
type Snapshot map[string]time.Time

// Scan walks root and records the modification time of every regular file.
// Directories whose name or root relative path is listed in ignore are not
// entered. Entries that cannot be read are skipped.
func Scan(root string, ignore []string) (Snapshot, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, merry.Appendf(err, "scan %s", root)
	}
	ignored := make(map[string]bool)
	for _, s := range ignore {
		ignored[filepath.Clean(filepath.FromSlash(s))] = true
	}

	x := make(Snapshot)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			rel, _ := filepath.Rel(root, path)
			if ignored[d.Name()] || ignored[rel] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		x[path] = info.ModTime()
		return nil
	})
	if err != nil {
		return nil, merry.Appendf(err, "scan %s", root)
	}
	return x, nil
}

// Diff lists the changes from prev to cur sorted by path.
func Diff(prev, cur Snapshot) []Change {
	var xs []Change
	for path, t := range cur {
		prevT, ok := prev[path]
		switch {
		case !ok:
			xs = append(xs, Change{path, Created})
		case !prevT.Equal(t):
			xs = append(xs, Change{path, Modified})
		}
	}
	for path := range prev {
		if _, ok := cur[path]; !ok {
			xs = append(xs, Change{path, Deleted})
		}
	}
	sort.Slice(xs, func(i, j int) bool {
		return xs[i].Path < xs[j].Path
	})
	return xs
}

type Poller struct {
	Root   string
	Ignore []string
	// Interval is the pause between two scans.
	Interval time.Duration
	// Duration limits the time Run polls. Zero means until the context is
	// cancelled.
	Duration time.Duration
	// OnChange is called after every scan that found changes.
	OnChange func(at time.Time, changes []Change)
	// OnError is called when a scan fails; polling goes on.
	OnError func(err error)
}

// Run scans the tree once and then every Interval, until Duration elapses or
// ctx is done. It returns nil when the duration elapsed and ctx.Err() when ctx
// was cancelled.
func (p *Poller) Run(ctx context.Context) error {
	if p.Interval <= 0 {
		return merry.Errorf("poll interval %s: must be positive", p.Interval)
	}
	last, err := Scan(p.Root, p.Ignore)
	if err != nil {
		return err
	}

	runCtx := ctx
	if p.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.Duration)
		defer cancel()
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			return ctx.Err()
		case at := <-ticker.C:
			cur, err := Scan(p.Root, p.Ignore)
			if err != nil {
				if p.OnError != nil {
					p.OnError(err)
				}
				continue
			}
			if changes := Diff(last, cur); len(changes) > 0 && p.OnChange != nil {
				p.OnChange(at, changes)
			}
			last = cur
		}
	}
}

// Relative returns path relative to root when possible.
func Relative(root, path string) string {
	root, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
