package animfile

import (
	"fmt"
	"io"
	"strconv"
	"text/template"

	"github.com/sheetanim/sheetanim/frameanalysis"
)

// 伴生脚本：把导出数据写成 Python 字面量，供不解析 JSON 的引擎直接 import。

var scriptTmpl = template.Must(template.New("script").Funcs(template.FuncMap{
	"py":      strconv.Quote,
	"pybool":  pyBool,
	"comment": commentText,
}).Parse(`# Animation: {{comment .Doc.Animation}}
# Generated from: {{comment .Doc.Sheet}}

ANIMATION = {{py .Doc.Animation}}
SPRITESHEET = {{py .Doc.Sheet}}
TILE_SIZE = ({{index .Doc.FrameSize 0}}, {{index .Doc.FrameSize 1}})

# Frame rectangles (x, y, w, h)
FRAMES = [
{{range .Doc.Frames}}    ({{.X}}, {{.Y}}, {{.W}}, {{.H}}),
{{end}}]
{{if .Analyzed}}
# Trimmed rectangles (x, y, w, h)
TRIMMED = [
{{range .Doc.Frames}}    ({{.Trimmed.X}}, {{.Trimmed.Y}}, {{.Trimmed.W}}, {{.Trimmed.H}}),
{{end}}]

# Offset of each trimmed rect inside its frame (x, y)
OFFSETS = [
{{range .Doc.Frames}}    ({{.Offset.X}}, {{.Offset.Y}}),
{{end}}]

# Pivot points relative to the trimmed rect (x, y)
PIVOTS = [
{{range .Doc.Frames}}    ({{.Pivot.X}}, {{.Pivot.Y}}),
{{end}}]
{{end}}
METADATA = {
    'name': {{py .Doc.Animation}},
    'spritesheet': {{py .Doc.Sheet}},
    'tile_size': ({{index .Doc.FrameSize 0}}, {{index .Doc.FrameSize 1}}),
    'frame_count': {{len .Doc.Frames}},
    'has_analysis': {{pybool .Analyzed}},
    'alpha_threshold': {{.Threshold}},
}


def get_frame_rect(index):
    return FRAMES[index] if 0 <= index < len(FRAMES) else None
{{if .Analyzed}}

def get_trimmed_rect(index):
    return TRIMMED[index] if 0 <= index < len(TRIMMED) else None


def get_pivot_point(index):
    return PIVOTS[index] if 0 <= index < len(PIVOTS) else None


def get_absolute_pivot(index):
    if not (0 <= index < len(TRIMMED)) or index >= len(PIVOTS):
        return None
    trim, pivot = TRIMMED[index], PIVOTS[index]
    return (trim[0] + pivot[0], trim[1] + pivot[1])
{{end}}`))

type scriptData struct {
	Doc       *Document
	Analyzed  bool
	Threshold int
}

// RenderScript writes doc as a Python module. The TRIMMED, OFFSETS and
// PIVOTS arrays and their helpers are only emitted when every frame carries
// analysis data.
func RenderScript(w io.Writer, doc *Document) error {
	data := scriptData{Doc: doc, Analyzed: len(doc.Frames) > 0, Threshold: frameanalysis.DefaultAlphaThreshold}
	for _, f := range doc.Frames {
		if f.Trimmed == nil || f.Offset == nil || f.Pivot == nil {
			data.Analyzed = false
			break
		}
	}
	if doc.Analysis != nil {
		data.Threshold = doc.Analysis.AlphaThreshold
	}
	if err := scriptTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render script: %w", err)
	}
	return nil
}

// commentText escapes s for a single '#' comment line, so line breaks in
// names cannot end the comment.
func commentText(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
