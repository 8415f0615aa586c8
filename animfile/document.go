// Package animfile reads and writes the legacy animation description file:
// a JSON document naming a sprite sheet and an ordered list of frame
// rectangles, optionally with the trim, offset and pivot data computed by
// frame analysis.
package animfile

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/bytedance/sonic"

	"github.com/sheetanim/sheetanim/spritegrid"
)

// OrderSelection is the only frame order written by this package.
const OrderSelection = "selection-order"

var ErrDecode = errors.New("animfile: decode failed")

type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func RectOf(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

func (r Rect) Image() image.Rectangle { return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H) }

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func PointOf(p image.Point) Point { return Point{X: p.X, Y: p.Y} }

// Frame is one entry of the frames array. X/Y/W/H is the cell rectangle in
// sheet pixels. Row and Col are absent in files written by older tools.
type Frame struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`

	Row *int `json:"row,omitempty"`
	Col *int `json:"col,omitempty"`

	Trimmed *Rect  `json:"trimmed,omitempty"`
	Offset  *Point `json:"offset,omitempty"`
	Pivot   *Point `json:"pivot,omitempty"`

	// Duration 单位为毫秒，缺省时由播放端决定。
	Duration int `json:"duration,omitempty"`
}

// Rect returns the frame's cell rectangle.
func (f Frame) Rect() image.Rectangle { return image.Rect(f.X, f.Y, f.X+f.W, f.Y+f.H) }

// GridPosition returns the stored row/col when both are present.
func (f Frame) GridPosition() (spritegrid.Position, bool) {
	if f.Row == nil || f.Col == nil {
		return spritegrid.Position{}, false
	}
	return spritegrid.Position{Row: *f.Row, Col: *f.Col}, true
}

// Analysis records the settings the frame data was computed with.
type Analysis struct {
	AlphaThreshold int  `json:"alpha_threshold"`
	HasAnalysis    bool `json:"has_analysis"`
}

// Document is the whole animation description file.
type Document struct {
	Animation string  `json:"animation"`
	Sheet     string  `json:"sheet"`
	FrameSize [2]int  `json:"frame_size"`
	Margin    int     `json:"margin"`
	Spacing   int     `json:"spacing"`
	Rows      int     `json:"rows"`
	Cols      int     `json:"cols"`
	Order     string  `json:"order"`
	Frames    []Frame `json:"frames"`

	Analysis *Analysis `json:"analysis,omitempty"`
}

// TileSize returns frame_size as a grid tile size.
func (d *Document) TileSize() spritegrid.Size {
	return spritegrid.Size{W: d.FrameSize[0], H: d.FrameSize[1]}
}

// Decode parses a legacy animation document. It checks JSON shape only;
// use the catalog package to validate required fields.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if doc.Order == "" {
		doc.Order = OrderSelection
	}
	return &doc, nil
}

// ReadFile decodes the document stored at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read animation file: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode renders the document as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode animation: %w", err)
	}
	return append(data, '\n'), nil
}
