package aseprite

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Load reads and parses the JSON file at path. Relative image references are
// resolved against the file's directory. An unreadable file yields a
// document carrying only an error.
func Load(path string) *Document {
	data, err := os.ReadFile(path)
	if err != nil {
		doc := &Document{JSONPath: path}
		if errors.Is(err, fs.ErrNotExist) {
			doc.errorf("file not found: %s", path)
		} else {
			doc.errorf("read error: %v", err)
		}
		aseLog().Warn().Err(err).Str("path", path).Msg("failed to read aseprite json")
		return doc
	}
	doc := Parse(data, filepath.Dir(path))
	doc.JSONPath = path
	return doc
}

// Parse builds a Document from Aseprite JSON. baseDir is the directory the
// meta.image reference is relative to.
func Parse(data []byte, baseDir string) *Document {
	doc := &Document{}
	if !gjson.ValidBytes(data) {
		doc.errorf("json parse error: invalid json")
		return doc
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		doc.errorf("json parse error: root is not an object")
		return doc
	}

	meta := root.Get("meta")
	if meta.Exists() && !meta.IsObject() {
		doc.warnf("meta block is not an object")
		meta = gjson.Result{}
	}
	resolveImage(doc, meta, baseDir)

	frames := root.Get("frames")
	if !frames.IsObject() || isEmptyObject(frames) {
		doc.errorf("no frames dictionary in json")
		return doc
	}
	parseFrames(doc, frames)
	parseTags(doc, meta.Get("frameTags"))

	aseLog().Debug().
		Int("frames", len(doc.Frames)).
		Int("animations", len(doc.Animations)).
		Int("warnings", len(doc.Warnings)).
		Bool("indicesShifted", doc.IndicesShifted).
		Msg("aseprite json parsed")
	return doc
}

func resolveImage(doc *Document, meta gjson.Result, baseDir string) {
	img := meta.Get("image")
	name := ""
	if img.Exists() && img.Type != gjson.Null {
		name = img.String()
	}
	if name == "" {
		doc.warnf("no image field in meta block")
		return
	}
	candidate := name
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(baseDir, name)
	}
	if _, err := os.Stat(candidate); err != nil {
		doc.warnf("image referenced but not found: %s", candidate)
		return
	}
	doc.ImagePath = candidate
}

// ---------- 帧 / Frames ----------

// parseFrames keeps the document order of the frames object.
func parseFrames(doc *Document, frames gjson.Result) {
	frames.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		f, err := parseFrame(name, value)
		switch {
		case err != nil:
			doc.warnf("failed to parse frame %q: %v", name, err)
		case f.Atlas.Empty():
			doc.warnf("frame %q has non-positive size; skipped", name)
		default:
			doc.Frames = append(doc.Frames, f)
		}
		return true
	})
}

func parseFrame(name string, raw gjson.Result) (Frame, error) {
	if !raw.IsObject() {
		return Frame{}, errors.New("entry is not an object")
	}
	rect, err := object(raw, "frame")
	if err != nil {
		return Frame{}, err
	}
	var x, y, w, h int
	if err := ints(rect, []string{"x", "y", "w", "h"}, []*int{&x, &y, &w, &h}, 0); err != nil {
		return Frame{}, err
	}
	if w <= 0 || h <= 0 {
		return Frame{Name: name}, nil
	}

	src, err := object(raw, "spriteSourceSize")
	if err != nil {
		return Frame{}, err
	}
	var srcX, srcY int
	if err := ints(src, []string{"x", "y"}, []*int{&srcX, &srcY}, 0); err != nil {
		return Frame{}, err
	}

	size, err := object(raw, "sourceSize")
	if err != nil {
		return Frame{}, err
	}
	fullW, err := intField(size, "w", w)
	if err != nil {
		return Frame{}, err
	}
	fullH, err := intField(size, "h", h)
	if err != nil {
		return Frame{}, err
	}

	duration, err := intField(raw, "duration", DefaultDurationMS)
	if err != nil {
		return Frame{}, err
	}
	if duration <= 0 {
		duration = DefaultDurationMS
	}

	return Frame{
		Name:         name,
		Atlas:        image.Rect(x, y, x+w, y+h),
		SourceSize:   image.Pt(fullW, fullH),
		SourceOffset: image.Pt(srcX, srcY),
		DurationMS:   duration,
	}, nil
}

// ---------- 标签 / Tags ----------

type tagEntry struct {
	raw      gjson.Result
	from, to int
	hasTo    bool
	err      error
}

func parseTags(doc *Document, tags gjson.Result) {
	if !tags.Exists() || tags.Type == gjson.Null {
		return
	}
	if !tags.IsArray() {
		doc.warnf("frameTags not a list; skipping animations")
		return
	}

	entries := make([]tagEntry, 0, len(tags.Array()))
	for _, raw := range tags.Array() {
		e := tagEntry{raw: raw}
		if !raw.IsObject() {
			e.err = errors.New("tag is not an object")
		} else {
			e.from, e.err = intField(raw, "from", 0)
			if e.err == nil {
				e.hasTo = raw.Get("to").Exists()
				e.to, e.err = intField(raw, "to", 0)
			}
		}
		entries = append(entries, e)
	}

	if normalizeOneBased(entries, len(doc.Frames)) {
		doc.IndicesShifted = true
		doc.warnf("normalized frameTags indices (detected 1-based indices)")
	}

	for i, e := range entries {
		if e.err != nil {
			doc.warnf("failed to parse tag %d: %v", i, e.err)
			continue
		}
		if a, ok := buildAnimation(doc, e); ok {
			doc.Animations = append(doc.Animations, a)
		}
	}
}

// normalizeOneBased shifts every tag range down by one when the tags look
// 1-based: the smallest "from" is 1, there is at least one frame, and no
// tag mentions index 0 in either "from" or "to" (a missing "to" counts as 0).
// The decision is made once across all tags; if any tag's indices cannot be
// read the tags are left alone. It reports whether the shift was applied.
func normalizeOneBased(entries []tagEntry, frameCount int) bool {
	if frameCount == 0 {
		return false
	}
	minFrom, seen := 0, false
	for _, e := range entries {
		if !e.raw.IsObject() {
			continue
		}
		if e.err != nil {
			return false
		}
		if e.from == 0 || e.to == 0 {
			return false
		}
		if !seen || e.from < minFrom {
			minFrom, seen = e.from, true
		}
	}
	if !seen || minFrom != 1 {
		return false
	}
	for i := range entries {
		if !entries[i].raw.IsObject() {
			continue
		}
		entries[i].from--
		entries[i].to--
		entries[i].hasTo = true
	}
	return true
}

func buildAnimation(doc *Document, e tagEntry) (Animation, bool) {
	name := "unnamed"
	if n := e.raw.Get("name"); n.Exists() && n.Type != gjson.Null && n.String() != "" {
		name = n.String()
	}

	start, end := e.from, e.from
	if e.hasTo {
		end = e.to
	}

	direction := Forward
	if d := e.raw.Get("direction"); d.Exists() {
		// null 也算给出了方向，按不支持处理
		direction = "none"
		if d.Type != gjson.Null {
			direction = Direction(strings.ToLower(d.String()))
		}
	}
	if !direction.supported() {
		doc.warnf("unsupported direction %q in tag %q, defaulting to forward", string(direction), name)
		direction = Forward
	}

	if start < 0 || end < start || end >= len(doc.Frames) {
		doc.warnf("tag %q indices out of range [%d, %d]; skipped", name, start, end)
		return Animation{}, false
	}

	indices := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		indices = append(indices, i)
	}
	if direction == Reverse {
		for l, r := 0, len(indices)-1; l < r; l, r = l+1, r-1 {
			indices[l], indices[r] = indices[r], indices[l]
		}
	}

	total := 0
	for _, i := range indices {
		total += doc.Frames[i].DurationMS
	}
	return Animation{
		Name:            name,
		Indices:         indices,
		Direction:       direction,
		TotalDurationMS: total,
	}, true
}

// ---------- 字段读取 / Field helpers ----------

// object returns the nested object at key. A missing key yields an empty
// result that reads as defaults; a present non-object is an error.
func object(parent gjson.Result, key string) (gjson.Result, error) {
	v := parent.Get(key)
	if !v.Exists() {
		return gjson.Result{}, nil
	}
	if !v.IsObject() {
		return gjson.Result{}, fmt.Errorf("%s is not an object", key)
	}
	return v, nil
}

func ints(obj gjson.Result, keys []string, dst []*int, def int) error {
	for i, k := range keys {
		v, err := intField(obj, k, def)
		if err != nil {
			return err
		}
		*dst[i] = v
	}
	return nil
}

// intField reads key as an integer the way a lenient JSON consumer would:
// numbers are truncated, numeric strings are parsed, booleans are 0/1.
func intField(obj gjson.Result, key string, def int) (int, error) {
	v := obj.Get(key)
	if !v.Exists() {
		return def, nil
	}
	switch v.Type {
	case gjson.Number:
		return int(v.Num), nil
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0, fmt.Errorf("%s: invalid integer %q", key, v.Str)
		}
		return n, nil
	case gjson.True:
		return 1, nil
	case gjson.False:
		return 0, nil
	default:
		return 0, fmt.Errorf("%s: expected integer, got %s", key, v.Raw)
	}
}

func isEmptyObject(r gjson.Result) bool {
	empty := true
	r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}
