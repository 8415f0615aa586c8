// Package catalog discovers legacy animation description files in tracked
// folders and indexes them by absolute path.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sheetanim/sheetanim/animfile"
)

var (
	ErrFolderNotFound = errors.New("catalog: folder not found")
	ErrNotDirectory   = errors.New("catalog: not a directory")
)

// Folder is a tracked directory and the valid records last found in it.
type Folder struct {
	Path     string
	Name     string
	Records  []*Record
	LastScan time.Time
}

// Catalog tracks folders of animation files. Every scan re-reads whole
// folders; there is no incremental update. It is not safe for concurrent use.
type Catalog struct {
	folders []*Folder
	byPath  map[string]*Record
}

func New() *Catalog {
	return &Catalog{byPath: make(map[string]*Record)}
}

// AddFolder starts tracking dir and scans it. name defaults to the directory
// base name. Adding a folder that is already tracked returns the existing one
// without rescanning.
func (c *Catalog) AddFolder(dir, name string) (*Folder, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	if f := c.Folder(abs); f != nil {
		return f, nil
	}
	if name == "" {
		name = filepath.Base(abs)
	}
	f := &Folder{Path: abs, Name: name}
	c.scan(f)
	c.folders = append(c.folders, f)
	catLog().Info().Str("folder", f.Name).Int("animations", len(f.Records)).Msg("folder added")
	return f, nil
}

// RemoveFolder stops tracking dir and forgets its records.
func (c *Catalog) RemoveFolder(dir string) bool {
	abs := absPath(dir)
	for i, f := range c.folders {
		if f.Path != abs {
			continue
		}
		c.forget(f)
		c.folders = append(c.folders[:i], c.folders[i+1:]...)
		return true
	}
	return false
}

// RefreshFolder rescans one tracked folder. It returns the number of valid
// records found and false when dir is not tracked.
func (c *Catalog) RefreshFolder(dir string) (int, bool) {
	f := c.Folder(dir)
	if f == nil {
		return 0, false
	}
	c.scan(f)
	return len(f.Records), true
}

// RescanAll rescans every tracked folder and returns the total record count.
func (c *Catalog) RescanAll() int {
	total := 0
	for _, f := range c.folders {
		c.scan(f)
		total += len(f.Records)
	}
	catLog().Debug().Int("folders", len(c.folders)).Int("animations", total).Msg("rescanned all folders")
	return total
}

func (c *Catalog) scan(f *Folder) {
	c.forget(f)
	records, err := LoadValid(f.Path)
	if err != nil {
		catLog().Warn().Err(err).Str("folder", f.Path).Msg("folder scan failed")
		records = nil
	}
	f.Records = records
	f.LastScan = time.Now()
	for _, r := range records {
		c.byPath[r.Path] = r
	}
}

func (c *Catalog) forget(f *Folder) {
	for _, r := range f.Records {
		delete(c.byPath, r.Path)
	}
}

// ByPath returns the cached record for an animation file.
func (c *Catalog) ByPath(path string) (*Record, bool) {
	r, ok := c.byPath[absPath(path)]
	return r, ok
}

// All returns the records of every folder, folder by folder.
func (c *Catalog) All() []*Record {
	var out []*Record
	for _, f := range c.folders {
		out = append(out, f.Records...)
	}
	return out
}

func (c *Catalog) HasFolder(dir string) bool { return c.Folder(dir) != nil }

// Folder returns the tracked folder for dir, or nil.
func (c *Catalog) Folder(dir string) *Folder {
	abs := absPath(dir)
	for _, f := range c.folders {
		if f.Path == abs {
			return f
		}
	}
	return nil
}

// Folders returns the tracked folders in the order they were added.
func (c *Catalog) Folders() []*Folder {
	out := make([]*Folder, len(c.folders))
	copy(out, c.folders)
	return out
}

// ByName returns the first record in f named name.
func (f *Folder) ByName(name string) (*Record, bool) {
	for _, r := range f.Records {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// ---------- 元数据 / Metadata ----------

// Metadata is the summary of a description file shown without loading it
// as a record.
type Metadata struct {
	Name       string
	Sheet      string
	FrameCount int
	FrameSize  [2]int
	Margin     int
	Spacing    int
	Order      string
}

// ExtractMetadata reads the summary fields of path. Unreadable or
// undecodable files yield a placeholder named "Invalid" with order "unknown".
func ExtractMetadata(path string) Metadata {
	doc, err := animfile.ReadFile(path)
	if err != nil {
		return Metadata{Name: "Invalid", Order: "unknown"}
	}
	name := doc.Animation
	if name == "" {
		name = "Unnamed"
	}
	return Metadata{
		Name:       name,
		Sheet:      doc.Sheet,
		FrameCount: len(doc.Frames),
		FrameSize:  doc.FrameSize,
		Margin:     doc.Margin,
		Spacing:    doc.Spacing,
		Order:      doc.Order,
	}
}
