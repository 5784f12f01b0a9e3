package detection

import (
	"fmt"
	"image"
	"math"
)

// Box is a top-left anchored bounding box in image pixels.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Rect rounds the box corners half-to-even into an integer rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(
		int(math.RoundToEven(b.X)),
		int(math.RoundToEven(b.Y)),
		int(math.RoundToEven(b.X+b.Width)),
		int(math.RoundToEven(b.Y+b.Height)),
	)
}

// Candidate is one raw model output row that passed the confidence cutoff.
type Candidate struct {
	ClassID    int
	Confidence float32
	Box        Box
}

// Detection is a candidate that survived suppression, with its class label resolved.
type Detection struct {
	Candidate
	Label string
}

func (d Detection) String() string {
	r := d.Box.Rect()
	return fmt.Sprintf("%s (%.2f) [%d,%d,%d,%d]", d.Label, d.Confidence, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// Decode turns network output rows into candidates for an image of the given size.
//
// Each row is [center_x, center_y, width, height, objectness, score_0 ... score_n]
// with coordinates normalized to the image. The class is the arg-max of the scores
// and its score is the confidence; rows scoring at or below threshold are dropped.
func Decode(rows [][]float32, width, height int, threshold float64) []Candidate {
	var candidates []Candidate
	for _, row := range rows {
		if len(row) <= 5 {
			continue
		}
		classID, confidence := argmax(row[5:])
		if float64(confidence) <= threshold {
			continue
		}

		centerX := int(float64(row[0]) * float64(width))
		centerY := int(float64(row[1]) * float64(height))
		w := int(float64(row[2]) * float64(width))
		h := int(float64(row[3]) * float64(height))

		candidates = append(candidates, Candidate{
			ClassID:    classID,
			Confidence: confidence,
			Box: Box{
				X:      float64(centerX) - float64(w)/2,
				Y:      float64(centerY) - float64(h)/2,
				Width:  float64(w),
				Height: float64(h),
			},
		})
	}
	return candidates
}

// argmax returns the first index of the largest score.
func argmax(scores []float32) (int, float32) {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best, scores[best]
}
