package detector

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func fingerprint(t *testing.T, blocks ...image.Rectangle) gocv.Mat {
	t.Helper()
	m := gocv.Zeros(100, 100, gocv.MatTypeCV8UC1)
	for _, b := range blocks {
		region := m.Region(b)
		require.NoError(t, region.SetTo(gocv.NewScalar(255, 0, 0, 0)))
		region.Close()
	}
	return m
}

func TestChangeScoreAbsentFingerprint(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	filled := fingerprint(t, image.Rect(0, 0, 10, 10))
	defer filled.Close()

	assert.Equal(t, 1.0, changeScore(empty, filled))
	assert.Equal(t, 1.0, changeScore(filled, empty))
	assert.Equal(t, 1.0, changeScore(empty, empty))
}

func TestChangeScoreIdentical(t *testing.T) {
	a := fingerprint(t, image.Rect(10, 10, 40, 40))
	defer a.Close()
	b := fingerprint(t, image.Rect(10, 10, 40, 40))
	defer b.Close()

	assert.Equal(t, 0.0, changeScore(a, b))
}

func TestChangeScoreBoundingBoxFraction(t *testing.T) {
	blank := fingerprint(t)
	defer blank.Close()
	// A single 50x50 block in a 100x100 fingerprint covers a quarter of
	// the frame area.
	quarter := fingerprint(t, image.Rect(0, 0, 50, 50))
	defer quarter.Close()

	assert.InDelta(t, 0.25, changeScore(blank, quarter), 0.01)
}

func TestChangeScoreDisjointRegionsSum(t *testing.T) {
	blank := fingerprint(t)
	defer blank.Close()
	two := fingerprint(t, image.Rect(0, 0, 20, 20), image.Rect(60, 60, 90, 90))
	defer two.Close()

	// 20x20 + 30x30 = 1300 of 10000 pixels.
	assert.InDelta(t, 0.13, changeScore(blank, two), 0.01)
}

func TestChangeScoreClampedToOne(t *testing.T) {
	blank := fingerprint(t)
	defer blank.Close()
	full := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC1)
	defer full.Close()

	assert.Equal(t, 1.0, changeScore(blank, full))
}

func TestChangeScoreDoesNotMutateInputs(t *testing.T) {
	a := fingerprint(t, image.Rect(0, 0, 30, 30))
	defer a.Close()
	b := fingerprint(t, image.Rect(50, 50, 80, 80))
	defer b.Close()

	beforeA := gocv.CountNonZero(a)
	beforeB := gocv.CountNonZero(b)
	changeScore(a, b)

	assert.Equal(t, beforeA, gocv.CountNonZero(a))
	assert.Equal(t, beforeB, gocv.CountNonZero(b))
}
