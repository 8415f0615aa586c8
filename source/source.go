// Package source lists animations from every origin, legacy folder files and
// imported Aseprite tags, behind one descriptor model.
package source

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sheetanim/sheetanim/aseprite"
	"github.com/sheetanim/sheetanim/catalog"
	"github.com/sheetanim/sheetanim/selection"
	"github.com/sheetanim/sheetanim/spritegrid"
)

type Type string

const (
	TypeFolderJSON Type = "folder-json"
	TypeAseprite   Type = "aseprite"
)

const (
	folderPrefix   = "folder::"
	asepritePrefix = "aseprite::"
)

var ErrUnknownID = errors.New("source: unknown animation id")

// FrameRef is one frame of an animation: an index into its origin's frame
// list and how long it is shown.
type FrameRef struct {
	Index      int
	DurationMS int
}

// Descriptor identifies one animation. IDs are stable for a session.
type Descriptor struct {
	ID         string
	Name       string
	FrameCount int
	Type       Type
	ReadOnly   bool
}

// Source is an origin of animations.
type Source interface {
	Descriptors() []Descriptor
	// Frames returns the frames of the animation with id, or nil when the
	// id does not belong to this source.
	Frames(id string) []FrameRef
	// Select maps the animation onto g. dropped counts frames that fall
	// outside the grid.
	Select(id string, g *spritegrid.Grid) (sel *selection.Selection, dropped int, err error)
}

// FolderID is the descriptor id of a legacy animation file.
func FolderID(path string) string { return folderPrefix + path }

// AsepriteID is the descriptor id of the tag at index in an Aseprite JSON
// file. Tags are addressed by position, so repeated names and names
// containing '#' stay distinct.
func AsepriteID(jsonPath string, index int) string {
	return asepritePrefix + jsonPath + "#" + strconv.Itoa(index)
}

// ParseID splits a descriptor id. For Aseprite ids ref is the tag index text
// after the last '#'; the path may itself contain '#'.
func ParseID(id string) (typ Type, path, ref string, ok bool) {
	switch {
	case strings.HasPrefix(id, folderPrefix):
		path = strings.TrimPrefix(id, folderPrefix)
		return TypeFolderJSON, path, "", path != ""
	case strings.HasPrefix(id, asepritePrefix):
		rest := strings.TrimPrefix(id, asepritePrefix)
		i := strings.LastIndexByte(rest, '#')
		if i <= 0 {
			return "", "", "", false
		}
		return TypeAseprite, rest[:i], rest[i+1:], true
	default:
		return "", "", "", false
	}
}

// ---------- 文件夹来源 / Folder source ----------

// FolderSource exposes the records of a catalog.
type FolderSource struct {
	cat *catalog.Catalog
}

func NewFolderSource(cat *catalog.Catalog) *FolderSource {
	return &FolderSource{cat: cat}
}

func (s *FolderSource) Descriptors() []Descriptor {
	records := s.cat.All()
	out := make([]Descriptor, 0, len(records))
	for _, r := range records {
		out = append(out, Descriptor{
			ID:         FolderID(r.Path),
			Name:       r.Name,
			FrameCount: r.FrameCount(),
			Type:       TypeFolderJSON,
		})
	}
	return out
}

func (s *FolderSource) record(id string) (*catalog.Record, bool) {
	typ, path, _, ok := ParseID(id)
	if !ok || typ != TypeFolderJSON {
		return nil, false
	}
	return s.cat.ByPath(path)
}

func (s *FolderSource) Frames(id string) []FrameRef {
	r, ok := s.record(id)
	if !ok {
		return nil
	}
	durations := r.FrameDurations(aseprite.DefaultDurationMS)
	out := make([]FrameRef, len(durations))
	for i, d := range durations {
		out[i] = FrameRef{Index: i, DurationMS: d}
	}
	return out
}

func (s *FolderSource) Select(id string, g *spritegrid.Grid) (*selection.Selection, int, error) {
	r, ok := s.record(id)
	if !ok {
		return nil, 0, ErrUnknownID
	}
	sel, dropped := selection.FromFrames(r.Frames, g)
	return sel, dropped, nil
}
