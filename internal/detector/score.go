package detector

import "gocv.io/x/gocv"

// changeScore returns the fraction of frame area covered by bounding boxes
// of connected change regions between two fingerprints. Bounding-rectangle
// area is a deliberate cheap over-approximation of the true contour area: it
// favors compact change regions and tolerates jagged diff blobs. Returns 1.0
// when either fingerprint is absent, so the first observed frame is always
// treated as maximal change. Inputs are not mutated.
func changeScore(reference, candidate gocv.Mat) float64 {
	if reference.Empty() || candidate.Empty() {
		return 1.0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(reference, candidate, &diff)

	contours := gocv.FindContours(diff, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	frameArea := float64(diff.Rows() * diff.Cols())
	var changed float64
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		changed += float64(rect.Dx() * rect.Dy())
	}

	// Overlapping bounding boxes can sum past the frame area.
	if changed > frameArea {
		return 1.0
	}
	return changed / frameArea
}
