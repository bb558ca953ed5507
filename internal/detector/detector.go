package detector

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrSourceUnavailable is returned when the video resource cannot be opened
// at all. Nothing is retried: the input is presumed invalid or inaccessible.
var ErrSourceUnavailable = errors.New("video source unavailable")

// DecodeError reports a fatal decode fault in the middle of a scan. Segments
// accepted before the fault are attached so the caller can decide whether
// partial output is acceptable.
type DecodeError struct {
	FrameIndex int
	Segments   []SlideSegment
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at frame %d: %v", e.FrameIndex, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SlideSegment is one accepted slide-transition event.
type SlideSegment struct {
	FrameIndex   int     `json:"frame_index"`
	TimestampSec float64 `json:"timestamp_sec"`
	ChangeRatio  float64 `json:"change_ratio"`
}

// Config holds the detection thresholds. All values have calibrated defaults
// for slide-style content versus talking-head motion; see DefaultConfig.
type Config struct {
	// MinSceneDuration is the debounce window in seconds: two accepted
	// segments are never closer than this. Protects against flicker, e.g.
	// a presenter briefly flipping back to a previous slide.
	MinSceneDuration float64
	// MinAreaRatio is the fraction of frame area that must have changed
	// for a frame to count as a new slide. Below it, the change is treated
	// as noise or presenter movement.
	MinAreaRatio float64
	// ResizeWidth caps the processing width. Wider frames are downscaled
	// preserving aspect ratio before edge extraction.
	ResizeWidth int
	// BlurKernelSize is the Gaussian kernel used to suppress compression
	// noise before edge detection. Must be odd.
	BlurKernelSize int
	// CannyLow and CannyHigh are the hysteresis thresholds for edge
	// detection.
	CannyLow  float32
	CannyHigh float32
	// DilationKernelSize thickens edge lines so sub-pixel text jitter
	// between frames does not register as a large difference.
	DilationKernelSize int
}

// DefaultConfig returns the calibration used for talk and interview
// recordings.
func DefaultConfig() Config {
	return Config{
		MinSceneDuration:   2.0,
		MinAreaRatio:       0.20,
		ResizeWidth:        1280,
		BlurKernelSize:     5,
		CannyLow:           50,
		CannyHigh:          150,
		DilationKernelSize: 3,
	}
}

// Detector finds slide transitions in a video. It holds no scan state
// itself; each Run owns its own reference fingerprint, so concurrent Runs
// and Frame calls are safe.
type Detector struct {
	cfg Config
}

func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

func (d *Detector) Config() Config { return d.cfg }

// Run scans the video sequentially and returns the accepted slide segments
// in strictly increasing frame order. The first frame is always accepted
// with a change ratio of 1.0. Every subsequent frame is compared against the
// fingerprint of the most recently accepted slide (never the immediately
// preceding frame, which would let many small changes drift past the
// threshold unnoticed); the reference rotates only on acceptance.
//
// On a mid-stream decode fault the scan stops and a *DecodeError carrying
// the segments accepted so far is returned. Cancelling ctx aborts the scan
// the same way.
func (d *Detector) Run(ctx context.Context, videoPath string) ([]SlideSegment, error) {
	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, videoPath, err)
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, videoPath)
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %s: unreadable frame rate", ErrSourceUnavailable, videoPath)
	}

	frame := gocv.NewMat()
	defer frame.Close()
	reference := gocv.NewMat()
	defer reference.Close()

	var segments []SlideSegment
	var lastAccepted float64
	frameIdx := 0

	for {
		if err := ctx.Err(); err != nil {
			return segments, &DecodeError{FrameIndex: frameIdx, Segments: segments, Err: err}
		}

		if ok := capture.Read(&frame); !ok {
			// Read returns false at end of stream. A capture that never
			// yields a single frame opened on garbage.
			if frameIdx == 0 {
				return nil, &DecodeError{FrameIndex: 0, Err: errors.New("no frames decoded")}
			}
			break
		}
		if frame.Empty() {
			return segments, &DecodeError{FrameIndex: frameIdx, Segments: segments, Err: errors.New("empty frame")}
		}

		edges := d.computeEdgeMap(frame)
		timestamp := float64(frameIdx) / fps

		if reference.Empty() {
			// The first frame is always the start of the first slide.
			segments = append(segments, SlideSegment{FrameIndex: frameIdx, TimestampSec: timestamp, ChangeRatio: 1.0})
			lastAccepted = timestamp
			edges.CopyTo(&reference)
		} else {
			score := changeScore(reference, edges)
			if score > d.cfg.MinAreaRatio && timestamp-lastAccepted >= d.cfg.MinSceneDuration {
				segments = append(segments, SlideSegment{FrameIndex: frameIdx, TimestampSec: timestamp, ChangeRatio: score})
				lastAccepted = timestamp
				edges.CopyTo(&reference)
			}
		}

		edges.Close()
		frameIdx++
	}

	return segments, nil
}
