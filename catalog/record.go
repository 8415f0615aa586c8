package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sheetanim/sheetanim/animfile"
	"github.com/sheetanim/sheetanim/spritegrid"
)

type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Record is one animation description file found on disk. Records are
// rebuilt from scratch on every scan; Path is the identity.
type Record struct {
	Path      string
	Name      string
	Sheet     string
	FrameSize spritegrid.Size
	Frames    []animfile.Frame
	ModTime   time.Time

	Status Status
	// Problem explains an invalid record.
	Problem string

	// Doc is the decoded file, nil for invalid records.
	Doc *animfile.Document
}

func (r *Record) Valid() bool { return r.Status == StatusValid && len(r.Frames) > 0 }

func (r *Record) FrameCount() int { return len(r.Frames) }

// FrameDurations returns the per-frame durations in milliseconds, using
// fallback for frames that do not specify one.
func (r *Record) FrameDurations(fallback int) []int {
	out := make([]int, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Duration
		if out[i] <= 0 {
			out[i] = fallback
		}
	}
	return out
}

func (r *Record) TotalDuration(fallback int) time.Duration {
	total := 0
	for _, d := range r.FrameDurations(fallback) {
		total += d
	}
	return time.Duration(total) * time.Millisecond
}

// SheetPath returns the sheet reference resolved against the record's
// directory. It does not check that the file exists.
func (r *Record) SheetPath() string {
	if r.Sheet == "" {
		return ""
	}
	sheet := filepath.FromSlash(r.Sheet)
	if filepath.IsAbs(sheet) {
		return sheet
	}
	return filepath.Join(filepath.Dir(r.Path), sheet)
}

// SheetRelativeTo expresses the sheet path relative to baseDir, or returns
// it absolute when that is not possible.
func (r *Record) SheetRelativeTo(baseDir string) string {
	abs := r.SheetPath()
	if abs == "" {
		return ""
	}
	rel, err := filepath.Rel(baseDir, abs)
	if err != nil {
		return abs
	}
	return rel
}

// loadRecord builds the record for one file. It never fails; problems are
// reported through Status and Problem.
func loadRecord(path string) *Record {
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	rec := &Record{
		Path:   path,
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Status: StatusInvalid,
	}
	if info, err := os.Stat(path); err == nil {
		rec.ModTime = info.ModTime()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		rec.Problem = err.Error()
		return rec
	}
	if err := Validate(data); err != nil {
		rec.Problem = err.Error()
		return rec
	}
	doc, err := animfile.Decode(data)
	if err != nil {
		rec.Problem = err.Error()
		return rec
	}

	if doc.Animation != "" {
		rec.Name = doc.Animation
	}
	rec.Sheet = doc.Sheet
	rec.FrameSize = doc.TileSize()
	rec.Frames = doc.Frames
	rec.Doc = doc
	rec.Status = StatusValid
	return rec
}
