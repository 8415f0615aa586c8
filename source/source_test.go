package source

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sheetanim/sheetanim/catalog"
	"github.com/sheetanim/sheetanim/spritegrid"
)

const asepriteJSON = `{
  "meta": {"frameTags": [
    {"name": "walk", "from": 0, "to": 2, "direction": "forward"},
    {"name": "back", "from": 0, "to": 1, "direction": "reverse"}
  ]},
  "frames": {
    "f0": {"frame": {"x": 0, "y": 0, "w": 16, "h": 16}, "duration": 100},
    "f1": {"frame": {"x": 16, "y": 0, "w": 16, "h": 16}, "duration": 150},
    "f2": {"frame": {"x": 96, "y": 0, "w": 16, "h": 16}, "duration": 200}
  }
}`

const legacyJSON = `{
  "animation": "idle",
  "sheet": "hero.png",
  "frame_size": [16, 16],
  "frames": [
    {"x": 16, "y": 16, "w": 16, "h": 16, "duration": 90},
    {"x": 0, "y": 0, "w": 16, "h": 16, "row": 0, "col": 2}
  ]
}`

func write(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func grid(t *testing.T) *spritegrid.Grid {
	t.Helper()
	g, err := spritegrid.New(64, 32, spritegrid.Size{W: 16, H: 16}, 0, 0)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestParseID(t *testing.T) {
	cases := []struct {
		id        string
		typ       Type
		path, tag string
		ok        bool
	}{
		{"folder::/a/b.json", TypeFolderJSON, "/a/b.json", "", true},
		{"aseprite::/a/x#1.json#3", TypeAseprite, "/a/x#1.json", "3", true},
		{"aseprite::/a/x.json#", TypeAseprite, "/a/x.json", "", true},
		{"aseprite::nohash", "", "", "", false},
		{"folder::", "", "", "", false},
		{"other::x", "", "", "", false},
	}
	for _, tc := range cases {
		typ, path, tag, ok := ParseID(tc.id)
		if ok != tc.ok || (ok && (typ != tc.typ || path != tc.path || tag != tc.tag)) {
			t.Errorf("%s: expected %v %q %q %v, got %v %q %q %v", tc.id, tc.typ, tc.path, tc.tag, tc.ok, typ, path, tag, ok)
		}
	}
	if got := AsepriteID("/p.json", 2); got != "aseprite::/p.json#2" {
		t.Errorf("unexpected id %s", got)
	}
}

func TestAsepriteSource(t *testing.T) {
	path := write(t, filepath.Join(t.TempDir(), "hero.json"), asepriteJSON)
	src, err := ImportAseprite(path)
	if err != nil {
		t.Fatalf("ImportAseprite: %v", err)
	}

	ds := src.Descriptors()
	if len(ds) != 2 || ds[0].Name != "walk" || ds[0].FrameCount != 3 || !ds[0].ReadOnly || ds[0].Type != TypeAseprite {
		t.Fatalf("unexpected descriptors %+v", ds)
	}

	frames := src.Frames(AsepriteID(path, 1))
	want := []FrameRef{{Index: 1, DurationMS: 150}, {Index: 0, DurationMS: 100}}
	if !reflect.DeepEqual(frames, want) {
		t.Errorf("expected %v, got %v", want, frames)
	}
	if src.Frames(AsepriteID("/other.json", 0)) != nil {
		t.Errorf("expected nil for a foreign path")
	}
	for _, id := range []string{AsepriteID(path, 2), AsepriteID(path, -1), "aseprite::" + path + "#walk"} {
		if src.Frames(id) != nil {
			t.Errorf("expected nil for unknown tag id %s", id)
		}
	}

	sel, dropped, err := src.Select(ds[0].ID, grid(t))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	// f2 sits at x=96, past the 4-column grid
	if dropped != 1 || !reflect.DeepEqual(sel.Positions(), []spritegrid.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}}) {
		t.Errorf("unexpected selection %v, dropped %d", sel.Positions(), dropped)
	}
}

func TestAsepriteSource_AwkwardTagNames(t *testing.T) {
	path := write(t, filepath.Join(t.TempDir(), "x#y.json"), `{
  "meta": {"frameTags": [
    {"name": "atk#1", "from": 0, "to": 1},
    {"name": "idle", "from": 0, "to": 0},
    {"name": "idle", "from": 1, "to": 1}
  ]},
  "frames": {
    "f0": {"frame": {"x": 0, "y": 0, "w": 16, "h": 16}, "duration": 100},
    "f1": {"frame": {"x": 16, "y": 0, "w": 16, "h": 16}, "duration": 150}
  }
}`)
	reg := NewRegistry(nil)
	if _, err := reg.ImportAseprite(path); err != nil {
		t.Fatalf("ImportAseprite: %v", err)
	}

	ds := reg.Descriptors()
	if len(ds) != 3 {
		t.Fatalf("expected 3 descriptors, got %+v", ds)
	}
	if ds[1].ID == ds[2].ID {
		t.Fatalf("expected distinct ids for repeated tag names, got %s twice", ds[1].ID)
	}

	want := [][]FrameRef{
		{{Index: 0, DurationMS: 100}, {Index: 1, DurationMS: 150}},
		{{Index: 0, DurationMS: 100}},
		{{Index: 1, DurationMS: 150}},
	}
	wantSel := [][]spritegrid.Position{
		{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		{{Row: 0, Col: 0}},
		{{Row: 0, Col: 1}},
	}
	for i, d := range ds {
		if frames := reg.Frames(d.ID); !reflect.DeepEqual(frames, want[i]) {
			t.Errorf("%s: expected frames %v, got %v", d.Name, want[i], frames)
		}
		sel, _, err := reg.Select(d.ID, grid(t))
		if err != nil {
			t.Fatalf("%s: Select: %v", d.Name, err)
		}
		if !reflect.DeepEqual(sel.Positions(), wantSel[i]) {
			t.Errorf("%s: expected selection %v, got %v", d.Name, wantSel[i], sel.Positions())
		}
	}
}

func TestAsepriteSource_Reimport(t *testing.T) {
	path := write(t, filepath.Join(t.TempDir(), "hero.json"), asepriteJSON)
	src, err := ImportAseprite(path)
	if err != nil {
		t.Fatalf("ImportAseprite: %v", err)
	}

	write(t, path, `{"frames":{"only":{"frame":{"x":0,"y":0,"w":8,"h":8}}},"meta":{"frameTags":[{"name":"solo","from":0,"to":0}]}}`)
	if err := src.Reimport(); err != nil {
		t.Fatalf("Reimport: %v", err)
	}
	if ds := src.Descriptors(); len(ds) != 1 || ds[0].Name != "solo" {
		t.Errorf("expected reimported tags, got %+v", ds)
	}

	write(t, path, `not json`)
	if err := src.Reimport(); !errors.Is(err, ErrImportFailed) {
		t.Errorf("expected ErrImportFailed, got %v", err)
	}
	if ds := src.Descriptors(); len(ds) != 1 {
		t.Errorf("expected previous document kept, got %+v", ds)
	}

	if _, err := ImportAseprite(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, ErrImportFailed) {
		t.Errorf("expected ErrImportFailed for a missing file, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	legacy := write(t, filepath.Join(dir, "idle.json"), legacyJSON)
	asePath := write(t, filepath.Join(dir, "hero-ase.json"), asepriteJSON)
	write(t, filepath.Join(dir, "notes.json"), `{"hello": "world"}`)

	cat := catalog.New()
	if _, err := cat.AddFolder(dir, ""); err != nil {
		t.Fatalf("AddFolder: %v", err)
	}
	reg := NewRegistry(NewFolderSource(cat))
	if _, err := reg.ImportAseprite(asePath); err != nil {
		t.Fatalf("ImportAseprite: %v", err)
	}
	// importing again replaces rather than duplicates
	if _, err := reg.ImportAseprite(asePath); err != nil {
		t.Fatalf("ImportAseprite: %v", err)
	}

	ds := reg.Descriptors()
	if len(ds) != 3 {
		t.Fatalf("expected 3 descriptors, got %+v", ds)
	}
	abs, _ := filepath.Abs(legacy)
	if ds[0].ID != FolderID(abs) || ds[0].Name != "idle" || ds[0].ReadOnly {
		t.Errorf("expected folder descriptor first, got %+v", ds[0])
	}

	if frames := reg.Frames(FolderID(abs)); !reflect.DeepEqual(frames, []FrameRef{{0, 90}, {1, 100}}) {
		t.Errorf("unexpected folder frames %v", frames)
	}
	if d, ok := reg.Lookup(AsepriteID(asePath, 0)); !ok || d.FrameCount != 3 {
		t.Errorf("expected walk lookup, got %+v %v", d, ok)
	}

	sel, dropped, err := reg.Select(FolderID(abs), grid(t))
	if err != nil || dropped != 0 {
		t.Fatalf("Select: %v (dropped %d)", err, dropped)
	}
	if !reflect.DeepEqual(sel.Positions(), []spritegrid.Position{{Row: 1, Col: 1}, {Row: 0, Col: 2}}) {
		t.Errorf("unexpected folder selection %v", sel.Positions())
	}
	if _, _, err := reg.Select("folder::/nope.json", grid(t)); !errors.Is(err, ErrUnknownID) {
		t.Errorf("expected ErrUnknownID, got %v", err)
	}

	n, err := reg.ReimportAseprite()
	if n != 1 || err != nil {
		t.Errorf("expected 1 reimport, got %d %v", n, err)
	}
	if err := os.Remove(asePath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n, err := reg.ReimportAseprite(); n != 0 || !errors.Is(err, ErrImportFailed) {
		t.Errorf("expected failed reimport, got %d %v", n, err)
	}
}
