package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

var (
	ErrNotJSON       = errors.New("catalog: not a json object")
	ErrMissingField  = errors.New("catalog: missing required field")
	ErrNoFrames      = errors.New("catalog: frames must be a non-empty list")
	ErrBadFirstFrame = errors.New("catalog: first frame lacks x, y, w, h")
)

var (
	requiredFields      = []string{"animation", "sheet", "frame_size", "frames"}
	requiredFrameFields = []string{"x", "y", "w", "h"}
)

// Validate checks that data is an animation description: the required top
// level fields are present, frames is a non-empty list and its first entry
// carries a pixel rectangle.
func Validate(data []byte) error {
	var root any
	if err := sonic.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return ErrNotJSON
	}
	for _, f := range requiredFields {
		if _, ok := obj[f]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingField, f)
		}
	}
	frames, ok := obj["frames"].([]any)
	if !ok || len(frames) == 0 {
		return ErrNoFrames
	}
	first, ok := frames[0].(map[string]any)
	if !ok {
		return ErrBadFirstFrame
	}
	for _, f := range requiredFrameFields {
		if _, ok := first[f]; !ok {
			return fmt.Errorf("%w: missing %s", ErrBadFirstFrame, f)
		}
	}
	return nil
}

// ValidateFile reads path and validates its contents.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return Validate(data)
}
