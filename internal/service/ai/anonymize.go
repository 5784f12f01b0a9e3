package ai

import (
	"fmt"
	"image"
	"image/color"

	"anonymizer/internal/detection"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Suppress applies greedy non-max suppression to the candidates and resolves
// the labels of the survivors. The order of the result is not meaningful.
func Suppress(candidates []detection.Candidate, classes detection.Classes, params detection.Params) []detection.Detection {
	if len(candidates) == 0 {
		return nil
	}

	boxes := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		boxes[i] = c.Box.Rect()
		scores[i] = c.Confidence
	}

	indices := gocv.NMSBoxes(boxes, scores, float32(params.ConfidenceThreshold), float32(params.NMSThreshold))

	detections := make([]detection.Detection, 0, len(indices))
	for _, i := range indices {
		c := candidates[i]
		detections = append(detections, detection.Detection{
			Candidate: c,
			Label:     classes.Label(c.ClassID),
		})
	}
	return detections
}

// Anonymize median-blurs, in place, the region of every detection whose label
// is on the allow-list. It returns how many regions were blurred.
func Anonymize(img *gocv.Mat, detections []detection.Detection, params detection.Params) (int, error) {
	bounds := image.Rect(0, 0, img.Cols(), img.Rows())

	blurred := 0
	for _, d := range detections {
		if !params.ShouldAnonymize(d.Label) {
			continue
		}

		rect := d.Box.Rect()
		kernel := params.KernelSize(rect.Dx(), rect.Dy())

		region := rect.Intersect(bounds)
		if region.Empty() {
			continue
		}
		if err := blurRegion(img, region, kernel); err != nil {
			return blurred, errors.Wrapf(err, "can't blur %s", d)
		}
		blurred++
	}
	return blurred, nil
}

func blurRegion(img *gocv.Mat, region image.Rectangle, kernel int) error {
	roi := img.Region(region)
	defer roi.Close()

	out := gocv.NewMat()
	defer out.Close()

	if err := gocv.MedianBlur(roi, &out, kernel); err != nil {
		return err
	}
	return out.CopyTo(&roi)
}

// Annotate outlines detections that were not blurred, labelled with class and
// confidence, in the colour of their class.
func Annotate(img *gocv.Mat, detections []detection.Detection, colors detection.ColorTable, params detection.Params) error {
	for _, d := range detections {
		if params.ShouldAnonymize(d.Label) {
			continue
		}

		c := colors.Color(d.ClassID)
		// gocv takes colours in BGR order through the RGBA fields.
		bgr := color.RGBA{R: c.B, G: c.G, B: c.R, A: 0}

		rect := d.Box.Rect()
		if err := gocv.Rectangle(img, rect, bgr, 2); err != nil {
			return fmt.Errorf("failed to draw rectangle: %v", err)
		}

		label := fmt.Sprintf("%s (%.2f)", d.Label, d.Confidence)
		pt := image.Pt(rect.Min.X, rect.Min.Y-5)
		if err := gocv.PutText(img, label, pt, gocv.FontHersheySimplex, 0.5, bgr, 1); err != nil {
			return fmt.Errorf("failed to draw text: %v", err)
		}
	}
	return nil
}

// ReadImage decodes the image file at path as 8-bit BGR.
func ReadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), errors.Errorf("can't decode image %s", path)
	}
	return img, nil
}

// WriteImage encodes img to path; the format follows the file extension.
func WriteImage(path string, img gocv.Mat) error {
	if ok := gocv.IMWrite(path, img); !ok {
		return errors.Errorf("can't encode image to %s", path)
	}
	return nil
}
