package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// computeEdgeMap converts a raw frame into its binary structural
// fingerprint. Deterministic for identical input and config; the caller owns
// the returned Mat.
//
// Each step rejects a specific kind of noise:
//   - grayscale: color carries nothing about slide layout
//   - Gaussian blur: compression artifacts would otherwise read as edges
//   - Canny: keeps sharp transitions (text, diagram borders); a presenter's
//     face has soft gradients and all but disappears
//   - dilation: thickens lines so 1-2px text jitter between frames does not
//     produce a huge difference on subtraction
func (d *Detector) computeEdgeMap(frame gocv.Mat) gocv.Mat {
	src := frame
	resized := gocv.NewMat()
	defer resized.Close()

	// Cap processing cost at ResizeWidth regardless of source resolution.
	if frame.Cols() > d.cfg.ResizeWidth {
		scale := float64(d.cfg.ResizeWidth) / float64(frame.Cols())
		gocv.Resize(frame, &resized, image.Point{}, scale, scale, gocv.InterpolationArea)
		src = resized
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := d.cfg.BlurKernelSize
	gocv.GaussianBlur(gray, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, d.cfg.CannyLow, d.cfg.CannyHigh)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(d.cfg.DilationKernelSize, d.cfg.DilationKernelSize))
	defer kernel.Close()
	dilated := gocv.NewMat()
	gocv.Dilate(edges, &dilated, kernel)

	return dilated
}
