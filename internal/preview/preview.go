package preview

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/slidescope/slidescope/internal/detector"
)

// Generator writes still images for detected slides. Each video gets its own
// directory under outputBase so cleanup is a single RemoveAll.
type Generator struct {
	det        *detector.Detector
	outputBase string
}

func NewGenerator(det *detector.Detector, outputBase string) *Generator {
	return &Generator{det: det, outputBase: outputBase}
}

// SlideStill seeks the frame at frameIndex and writes it as a JPEG. Returns
// the written path. A frame that cannot be decoded is not an error for the
// pipeline; it returns ("", nil) and the segment simply has no thumbnail.
func (g *Generator) SlideStill(videoID, videoPath string, frameIndex int) (string, error) {
	outDir := filepath.Join(g.outputBase, videoID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	frame, ok := g.det.Frame(videoPath, frameIndex)
	if !ok {
		return "", nil
	}
	defer frame.Close()

	outPath := filepath.Join(outDir, fmt.Sprintf("slide_%06d.jpg", frameIndex))
	if ok := gocv.IMWrite(outPath, frame); !ok {
		return "", fmt.Errorf("slide still: failed to encode frame %d", frameIndex)
	}
	return outPath, nil
}

// EncodeFrame returns a single frame as JPEG bytes for on-demand serving.
// ok is false when the frame is out of range or undecodable.
func (g *Generator) EncodeFrame(videoPath string, frameIndex int) ([]byte, bool) {
	frame, ok := g.det.Frame(videoPath, frameIndex)
	if !ok {
		return nil, false
	}
	defer frame.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return nil, false
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, true
}

// RemoveAll deletes every still written for a video.
func (g *Generator) RemoveAll(videoID string) error {
	return os.RemoveAll(filepath.Join(g.outputBase, videoID))
}
