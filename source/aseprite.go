package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sheetanim/sheetanim/aseprite"
	"github.com/sheetanim/sheetanim/selection"
	"github.com/sheetanim/sheetanim/spritegrid"
)

var ErrImportFailed = errors.New("source: aseprite import failed")

// AsepriteSource exposes the tags of one imported Aseprite document. Its
// animations are read-only.
type AsepriteSource struct {
	path string
	doc  *aseprite.Document
}

// ImportAseprite parses the JSON at path. A document carrying errors is not
// imported.
func ImportAseprite(path string) (*AsepriteSource, error) {
	doc := aseprite.Load(path)
	if doc.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %s", ErrImportFailed, path, strings.Join(doc.Errors, "; "))
	}
	return &AsepriteSource{path: path, doc: doc}, nil
}

// NewAsepriteSource wraps an already parsed document.
func NewAsepriteSource(doc *aseprite.Document) *AsepriteSource {
	return &AsepriteSource{path: doc.JSONPath, doc: doc}
}

func (s *AsepriteSource) Path() string { return s.path }

func (s *AsepriteSource) Document() *aseprite.Document { return s.doc }

// Reimport parses the file again. On failure the previous document is kept.
func (s *AsepriteSource) Reimport() error {
	doc := aseprite.Load(s.path)
	if doc.HasErrors() {
		return fmt.Errorf("%w: %s: %s", ErrImportFailed, s.path, strings.Join(doc.Errors, "; "))
	}
	s.doc = doc
	return nil
}

func (s *AsepriteSource) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(s.doc.Animations))
	for i, a := range s.doc.Animations {
		out = append(out, Descriptor{
			ID:         AsepriteID(s.path, i),
			Name:       a.Name,
			FrameCount: len(a.Indices),
			Type:       TypeAseprite,
			ReadOnly:   true,
		})
	}
	return out
}

func (s *AsepriteSource) animation(id string) (aseprite.Animation, bool) {
	ref, ok := strings.CutPrefix(id, asepritePrefix+s.path+"#")
	if !ok {
		return aseprite.Animation{}, false
	}
	i, err := strconv.Atoi(ref)
	if err != nil || i < 0 || i >= len(s.doc.Animations) {
		return aseprite.Animation{}, false
	}
	return s.doc.Animations[i], true
}

func (s *AsepriteSource) Frames(id string) []FrameRef {
	a, ok := s.animation(id)
	if !ok {
		return nil
	}
	out := make([]FrameRef, 0, len(a.Indices))
	for _, idx := range a.Indices {
		if idx >= 0 && idx < len(s.doc.Frames) {
			out = append(out, FrameRef{Index: idx, DurationMS: s.doc.Frames[idx].DurationMS})
		}
	}
	return out
}

func (s *AsepriteSource) Select(id string, g *spritegrid.Grid) (*selection.Selection, int, error) {
	a, ok := s.animation(id)
	if !ok {
		return nil, 0, ErrUnknownID
	}
	sel, dropped := selection.FromTag(s.doc, a, g)
	return sel, dropped, nil
}
