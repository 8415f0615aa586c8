package frameanalysis

import "image"

// SuggestAlphaThreshold 使用大津法（Otsu's Method）在 alpha 直方图上计算阈值。
//
// SuggestAlphaThreshold runs Otsu's method over the alpha histogram of rect
// and returns the threshold that best separates the transparent background
// from the sprite body. The result is capped at 254 so that fully opaque
// pixels always count as content. An empty or out-of-image rect yields
// DefaultAlphaThreshold.
func SuggestAlphaThreshold(img image.Image, rect image.Rectangle) int {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return DefaultAlphaThreshold
	}

	alphaAt := alphaReader(img)
	var histogram [256]int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			histogram[alphaAt(x, y)]++
		}
	}
	totalPixels := rect.Dx() * rect.Dy()

	var totalSum float64
	for i := 0; i < 256; i++ {
		totalSum += float64(i) * float64(histogram[i])
	}

	var sumBackground float64
	var weightBackground, weightForeground int
	var maxVariance float64
	bestThreshold := 0

	for t := 0; t < 256; t++ {
		weightBackground += histogram[t]
		if weightBackground == 0 {
			continue
		}
		weightForeground = totalPixels - weightBackground
		if weightForeground == 0 {
			break
		}

		sumBackground += float64(t) * float64(histogram[t])
		meanBackground := sumBackground / float64(weightBackground)
		meanForeground := (totalSum - sumBackground) / float64(weightForeground)

		// 类间方差
		variance := float64(weightBackground) * float64(weightForeground) *
			(meanBackground - meanForeground) * (meanBackground - meanForeground)
		if variance > maxVariance {
			maxVariance = variance
			bestThreshold = t
		}
	}

	if bestThreshold > 254 {
		bestThreshold = 254
	}
	return bestThreshold
}
