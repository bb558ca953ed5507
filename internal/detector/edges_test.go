package detector

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func colorFrame(width, height int) gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), height, width, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&m, image.Rect(width/4, height/4, width/2, height/2), color.RGBA{}, -1)
	return m
}

func TestComputeEdgeMapIsBinary(t *testing.T) {
	frame := colorFrame(640, 360)
	defer frame.Close()

	det := New(DefaultConfig())
	edges := det.computeEdgeMap(frame)
	defer edges.Close()

	assert.Equal(t, gocv.MatTypeCV8UC1, edges.Type())
	assert.Equal(t, 640, edges.Cols())
	assert.Equal(t, 360, edges.Rows())
	assert.Greater(t, gocv.CountNonZero(edges), 0, "a sharp rectangle must produce edges")

	// Strictly background/foreground: no intermediate grayscale values.
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.InRangeWithScalar(edges, gocv.NewScalar(1, 0, 0, 0), gocv.NewScalar(254, 0, 0, 0), &gray)
	assert.Equal(t, 0, gocv.CountNonZero(gray))
}

func TestComputeEdgeMapDownscalesWideFrames(t *testing.T) {
	frame := colorFrame(1920, 1080)
	defer frame.Close()

	det := New(DefaultConfig())
	edges := det.computeEdgeMap(frame)
	defer edges.Close()

	assert.Equal(t, 1280, edges.Cols())
	assert.Equal(t, 720, edges.Rows(), "aspect ratio must be preserved")
}

func TestComputeEdgeMapDeterministic(t *testing.T) {
	frame := colorFrame(640, 360)
	defer frame.Close()

	det := New(DefaultConfig())
	first := det.computeEdgeMap(frame)
	defer first.Close()
	second := det.computeEdgeMap(frame)
	defer second.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(first, second, &diff)
	require.Equal(t, 0, gocv.CountNonZero(diff))
}

func TestComputeEdgeMapIgnoresSoftGradients(t *testing.T) {
	// A smooth gradient stands in for a presenter's face: soft transitions
	// must contribute far fewer edge pixels than sharp slide content.
	gradient := gocv.NewMatWithSize(360, 640, gocv.MatTypeCV8UC3)
	defer gradient.Close()
	for x := 0; x < 640; x += 8 {
		v := float64(x) / 640 * 80
		region := gradient.Region(image.Rect(x, 0, x+8, 360))
		region.SetTo(gocv.NewScalar(v+100, v+100, v+100, 0))
		region.Close()
	}

	slide := colorFrame(640, 360)
	defer slide.Close()

	det := New(DefaultConfig())
	gradEdges := det.computeEdgeMap(gradient)
	defer gradEdges.Close()
	slideEdges := det.computeEdgeMap(slide)
	defer slideEdges.Close()

	assert.Less(t, gocv.CountNonZero(gradEdges), gocv.CountNonZero(slideEdges)/4)
}
