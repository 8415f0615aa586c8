package animfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sheetanim/sheetanim/frameanalysis"
	"github.com/sheetanim/sheetanim/spritegrid"
)

var (
	ErrEmptyName      = errors.New("animfile: animation name is empty")
	ErrEmptySelection = errors.New("animfile: no frames selected")
)

// FrameSource is an analyzed sprite sheet frames can be exported from.
type FrameSource interface {
	Path() string
	Grid() *spritegrid.Grid
	AlphaThreshold() int
	Analyze(row, col int) (frameanalysis.Result, bool)
}

// Build assembles a document for the selected cells in selection order.
// exportPath is where the JSON will be written; the sheet reference is made
// relative to its directory. Cells that cannot be analyzed are left out and
// counted in skipped.
func Build(src FrameSource, name string, positions []spritegrid.Position, exportPath string) (doc *Document, skipped int, err error) {
	if strings.TrimSpace(name) == "" {
		return nil, 0, ErrEmptyName
	}
	if len(positions) == 0 {
		return nil, 0, ErrEmptySelection
	}
	g := src.Grid()
	doc = &Document{
		Animation: name,
		Sheet:     SheetRef(src.Path(), exportPath),
		FrameSize: [2]int{g.Tile().W, g.Tile().H},
		Margin:    g.Margin(),
		Spacing:   g.Spacing(),
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		Order:     OrderSelection,
		Frames:    make([]Frame, 0, len(positions)),
		Analysis:  &Analysis{AlphaThreshold: src.AlphaThreshold(), HasAnalysis: true},
	}
	for _, pos := range positions {
		res, ok := src.Analyze(pos.Row, pos.Col)
		if !ok {
			skipped++
			fileLog().Debug().Int("row", pos.Row).Int("col", pos.Col).Msg("frame not analyzable, skipped")
			continue
		}
		row, col := pos.Row, pos.Col
		trimmed, offset, pivot := RectOf(res.Trimmed), PointOf(res.Offset), PointOf(res.Pivot)
		doc.Frames = append(doc.Frames, Frame{
			X: res.Original.Min.X, Y: res.Original.Min.Y,
			W: res.Original.Dx(), H: res.Original.Dy(),
			Row: &row, Col: &col,
			Trimmed: &trimmed,
			Offset:  &offset,
			Pivot:   &pivot,
		})
	}
	return doc, skipped, nil
}

// SheetRef expresses sheetPath relative to the directory of exportPath,
// falling back to the absolute path when no relative form exists.
func SheetRef(sheetPath, exportPath string) string {
	absSheet, err := filepath.Abs(sheetPath)
	if err != nil {
		return filepath.ToSlash(sheetPath)
	}
	absExport, err := filepath.Abs(exportPath)
	if err != nil {
		return filepath.ToSlash(absSheet)
	}
	rel, err := filepath.Rel(filepath.Dir(absExport), absSheet)
	if err != nil {
		return filepath.ToSlash(absSheet)
	}
	return filepath.ToSlash(rel)
}

// ScriptPath is the companion script path for a JSON export path.
func ScriptPath(jsonPath string) string {
	return strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ".py"
}

// WriteJSON encodes doc to path, creating parent directories.
func WriteJSON(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write animation json: %w", err)
	}
	fileLog().Info().Str("path", path).Str("animation", doc.Animation).Int("frames", len(doc.Frames)).Msg("animation exported")
	return nil
}

// WriteScript writes the companion Python module for doc to path.
func WriteScript(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	if err := RenderScript(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close script: %w", err)
	}
	fileLog().Info().Str("path", path).Msg("companion script written")
	return nil
}
