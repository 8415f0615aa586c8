package sheet

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// CellImage returns a copy of one cell's pixels with its origin at (0,0).
func (s *Sheet) CellImage(row, col int) (*image.NRGBA, error) {
	rect, err := s.grid.CellRect(row, col)
	if err != nil {
		return nil, err
	}
	return crop(s.Image, rect), nil
}

// TrimmedImage returns the content of one cell cropped to its trim bounds.
// Cells without content yield the whole cell.
func (s *Sheet) TrimmedImage(row, col int) (*image.NRGBA, error) {
	res, ok := s.Analyze(row, col)
	if !ok {
		return nil, fmt.Errorf("sheet: cell (%d, %d) could not be analyzed", row, col)
	}
	return crop(s.Image, res.Trimmed), nil
}

func crop(src *image.NRGBA, r image.Rectangle) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src.SubImage(r), r.Min, xdraw.Src)
	return dst
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling,
// which keeps pixel art crisp. Factors below 2 return img unchanged.
func Scale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
