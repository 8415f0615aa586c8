// Package aseprite reads the JSON data Aseprite writes next to an exported
// sprite sheet ("Export Sprite Sheet" with JSON data, hash layout).
//
// Parsing never fails outright. Problems that make the file unusable are
// collected in Document.Errors, recoverable quirks in Document.Warnings.
package aseprite

import (
	"fmt"
	"image"
)

// Direction is a tag playback direction.
type Direction string

const (
	Forward  Direction = "forward"
	Reverse  Direction = "reverse"
	PingPong Direction = "pingpong"
)

// DefaultDurationMS replaces missing or non-positive frame durations.
const DefaultDurationMS = 100

func (d Direction) supported() bool {
	switch d {
	case Forward, Reverse, PingPong:
		return true
	default:
		return false
	}
}

// Frame is one entry of the document's frames object.
type Frame struct {
	// Name is the key of the frame in the frames object.
	Name string

	// Atlas is the frame's packed location within the sheet image.
	Atlas image.Rectangle

	// SourceSize is the untrimmed logical frame size.
	SourceSize image.Point

	// SourceOffset is where the trimmed content sits inside the logical frame.
	SourceOffset image.Point

	// DurationMS is always positive.
	DurationMS int
}

// Animation is a tag: a named range of frame indices.
type Animation struct {
	Name string

	// Indices point into Document.Frames, in playback order. Reverse tags
	// store them descending. PingPong tags keep plain from..to order.
	Indices []int

	Direction       Direction
	TotalDurationMS int
}

// Document is the result of one parse.
type Document struct {
	JSONPath string

	// ImagePath is the resolved sheet image, empty when meta.image is
	// missing or the file does not exist.
	ImagePath string

	Frames     []Frame
	Animations []Animation

	// IndicesShifted reports that every tag range was moved down by one
	// because the tags looked 1-based.
	IndicesShifted bool

	Warnings []string
	Errors   []string
}

// HasErrors reports whether the document failed to load.
func (d *Document) HasErrors() bool { return len(d.Errors) > 0 }

// Animation looks up a tag by name; the first match wins.
func (d *Document) Animation(name string) (Animation, bool) {
	for _, a := range d.Animations {
		if a.Name == name {
			return a, true
		}
	}
	return Animation{}, false
}

// Summary is a one-line description used by status output.
func (d *Document) Summary() string {
	img := "missing"
	if d.ImagePath != "" {
		img = "present"
	}
	return fmt.Sprintf("AsepriteDocument: frames=%d animations=%d image=%s warnings=%d errors=%d",
		len(d.Frames), len(d.Animations), img, len(d.Warnings), len(d.Errors))
}

func (d *Document) warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

func (d *Document) errorf(format string, args ...any) {
	d.Errors = append(d.Errors, fmt.Sprintf(format, args...))
}
