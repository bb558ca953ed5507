package detector

import "gocv.io/x/gocv"

// Frame seeks directly to frameIndex on its own stream handle, decodes that
// single frame and returns it in BGR order. The caller owns the returned Mat
// and must Close it when ok is true.
//
// ok is false when the index is out of range or the frame cannot be decoded;
// callers must treat that as "no thumbnail available", never as a fatal
// condition. Frame holds no shared state and may be called concurrently,
// including while a Run is in progress on the same file.
func (d *Detector) Frame(videoPath string, frameIndex int) (gocv.Mat, bool) {
	if frameIndex < 0 {
		return gocv.Mat{}, false
	}

	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return gocv.Mat{}, false
	}
	defer capture.Close()

	capture.Set(gocv.VideoCapturePosFrames, float64(frameIndex))

	frame := gocv.NewMat()
	if ok := capture.Read(&frame); !ok || frame.Empty() {
		frame.Close()
		return gocv.Mat{}, false
	}
	return frame, true
}
