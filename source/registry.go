package source

import (
	"errors"
	"sync"

	"github.com/sheetanim/sheetanim/selection"
	"github.com/sheetanim/sheetanim/spritegrid"
)

// Registry combines sources. Imported Aseprite documents are keyed by JSON
// path; importing the same path again replaces the earlier import.
type Registry struct {
	mu       sync.RWMutex
	folders  *FolderSource
	aseprite []*AsepriteSource
}

// NewRegistry creates a registry; folders may be nil.
func NewRegistry(folders *FolderSource) *Registry {
	return &Registry{folders: folders}
}

func (r *Registry) sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, 0, len(r.aseprite)+1)
	if r.folders != nil {
		out = append(out, r.folders)
	}
	for _, a := range r.aseprite {
		out = append(out, a)
	}
	return out
}

// AddAseprite registers src, replacing a source with the same path.
func (r *Registry) AddAseprite(src *AsepriteSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.aseprite {
		if existing.Path() == src.Path() {
			r.aseprite[i] = src
			return
		}
	}
	r.aseprite = append(r.aseprite, src)
}

// ImportAseprite parses path and registers it.
func (r *Registry) ImportAseprite(path string) (*AsepriteSource, error) {
	src, err := ImportAseprite(path)
	if err != nil {
		return nil, err
	}
	r.AddAseprite(src)
	srcLog().Info().
		Str("path", path).
		Int("animations", len(src.Document().Animations)).
		Int("warnings", len(src.Document().Warnings)).
		Msg("aseprite document imported")
	return src, nil
}

// ReimportAseprite re-parses every Aseprite source from disk. It returns how
// many succeeded and the joined errors of those that failed.
func (r *Registry) ReimportAseprite() (int, error) {
	r.mu.RLock()
	srcs := append([]*AsepriteSource(nil), r.aseprite...)
	r.mu.RUnlock()

	ok := 0
	var errs []error
	for _, s := range srcs {
		if err := s.Reimport(); err != nil {
			srcLog().Warn().Err(err).Str("path", s.Path()).Msg("reimport failed")
			errs = append(errs, err)
			continue
		}
		ok++
	}
	return ok, errors.Join(errs...)
}

// Descriptors lists folder animations first, then Aseprite tags in import
// order.
func (r *Registry) Descriptors() []Descriptor {
	var out []Descriptor
	for _, s := range r.sources() {
		out = append(out, s.Descriptors()...)
	}
	return out
}

// Lookup finds the descriptor with id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	for _, d := range r.Descriptors() {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

func (r *Registry) Frames(id string) []FrameRef {
	for _, s := range r.sources() {
		if f := s.Frames(id); f != nil {
			return f
		}
	}
	return nil
}

// Select maps the animation with id onto g.
func (r *Registry) Select(id string, g *spritegrid.Grid) (*selection.Selection, int, error) {
	for _, s := range r.sources() {
		sel, dropped, err := s.Select(id, g)
		if errors.Is(err, ErrUnknownID) {
			continue
		}
		return sel, dropped, err
	}
	return nil, 0, ErrUnknownID
}
