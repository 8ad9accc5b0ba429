package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/raoulx24/birdwatcher/internal/index"
)

// Drift is the difference between an index file and what is on disk.
type Drift struct {
	Index   string
	Added   []string
	Removed []string
	State   index.State
}

// ExifMismatch is an image whose EXIF timestamp lies on another date than
// the directory holding it.
type ExifMismatch struct {
	Path     string
	Dir      string
	ExifDate string
}

type ReindexReport struct {
	Dates      []string
	Drift      []Drift
	Mismatches []ExifMismatch
}

// Reindex rebuilds every pictures index from the images present in its date
// directory, and the dates index from the directories holding at least one
// image. With dryRun set nothing is written; the report shows what would
// change.
func (o *Orchestrator) Reindex(ctx context.Context, dryRun bool) (ReindexReport, error) {
	var report ReindexReport

	entries, err := os.ReadDir(o.layout.Root)
	if err != nil {
		return report, fmt.Errorf("reading picture root: %w", err)
	}

	for _, ent := range entries {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if !ent.IsDir() || !isDateDir(ent.Name()) {
			continue
		}
		date := ent.Name()

		pictures, err := o.scanPictures(date)
		if err != nil {
			return report, err
		}
		report.Mismatches = append(report.Mismatches, o.checkExif(date, pictures)...)

		if len(pictures) > 0 {
			report.Dates = append(report.Dates, date)
		}

		drift, err := o.syncIndex(o.layout.PicturesIndex(date), pictures, dryRun)
		if err != nil {
			return report, err
		}
		if drift != nil {
			report.Drift = append(report.Drift, *drift)
		}
	}

	drift, err := o.syncIndex(o.layout.DatesIndex(), report.Dates, dryRun)
	if err != nil {
		return report, err
	}
	if drift != nil {
		report.Drift = append(report.Drift, *drift)
	}

	return report, nil
}

func isDateDir(name string) bool {
	if len(name) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, name)
	return err == nil
}

func isCaptureTime(stem string) bool {
	if len(stem) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, stem)
	return err == nil
}

// scanPictures lists the finished captures of one date directory: files
// named after a capture time with the configured extension.
func (o *Orchestrator) scanPictures(date string) ([]string, error) {
	entries, err := os.ReadDir(o.layout.Dir(date))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", date, err)
	}

	var names []string
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, o.layout.Extension) || !isCaptureTime(strings.TrimSuffix(name, ext)) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// syncIndex compares the index at path with want and, unless dryRun, brings
// it in line. It returns nil when the index is already correct.
func (o *Orchestrator) syncIndex(path string, want []string, dryRun bool) (*Drift, error) {
	cur, err := index.Read(path)
	if err != nil {
		return nil, err
	}

	drift := &Drift{Index: path, State: cur.State}
	for _, w := range want {
		if !cur.Contains(w) {
			drift.Added = append(drift.Added, w)
		}
	}
	for _, c := range cur.Entries {
		if !slices.Contains(want, c) {
			drift.Removed = append(drift.Removed, c)
		}
	}

	if cur.State == index.Loaded && len(drift.Added) == 0 && len(drift.Removed) == 0 {
		return nil, nil
	}
	if cur.State == index.Absent && len(want) == 0 {
		return nil, nil
	}
	if dryRun {
		return drift, nil
	}

	if _, err := o.idx.Replace(path, want); err != nil {
		return nil, err
	}
	o.log.Info("index rebuilt", "index", path, "state", cur.State, "added", len(drift.Added), "removed", len(drift.Removed))
	return drift, nil
}

// checkExif flags JPEGs whose EXIF date disagrees with their directory.
// Images without EXIF data are ignored.
func (o *Orchestrator) checkExif(date string, pictures []string) []ExifMismatch {
	var out []ExifMismatch
	for _, name := range pictures {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".jpg" && ext != ".jpeg" {
			continue
		}

		path := filepath.Join(o.layout.Dir(date), name)
		taken, err := exifTime(path)
		if err != nil {
			continue
		}

		if d := taken.Format(DateLayout); d != date {
			o.log.Warn("exif date differs from directory", "path", path, "exifDate", d)
			out = append(out, ExifMismatch{Path: path, Dir: date, ExifDate: d})
		}
	}
	return out
}

func exifTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}
