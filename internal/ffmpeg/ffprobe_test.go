package ffmpeg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeOutput = `{
	"streams": [
		{
			"codec_type": "audio",
			"codec_name": "aac"
		},
		{
			"codec_type": "video",
			"codec_name": "h264",
			"width": 1920,
			"height": 1080,
			"r_frame_rate": "30000/1001",
			"nb_frames": "9000",
			"pix_fmt": "yuv420p"
		}
	],
	"format": {
		"filename": "talk.mp4",
		"duration": "300.3",
		"size": "104857600",
		"bit_rate": "2793000"
	}
}`

func TestProbeResultParsing(t *testing.T) {
	var result ProbeResult
	require.NoError(t, json.Unmarshal([]byte(sampleProbeOutput), &result))

	assert.InDelta(t, 300.3, result.GetDurationSeconds(), 1e-9)

	stream := result.GetVideoStream()
	require.NotNil(t, stream)
	assert.Equal(t, "h264", stream.CodecName)
	assert.Equal(t, 1920, stream.Width)
	assert.Equal(t, 1080, stream.Height)
	assert.InDelta(t, 29.97, stream.FrameRate(), 0.01)
}

func TestGetVideoStreamMissing(t *testing.T) {
	result := ProbeResult{Streams: []StreamInfo{{CodecType: "audio", CodecName: "mp3"}}}
	assert.Nil(t, result.GetVideoStream())
}

func TestFrameRate(t *testing.T) {
	tests := []struct {
		name string
		rate string
		want float64
	}{
		{"ntsc fraction", "30000/1001", 29.97},
		{"integer fraction", "25/1", 25},
		{"bare integer", "24", 24},
		{"zero denominator", "30/0", 0},
		{"empty", "", 0},
		{"garbage", "abc/def", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StreamInfo{RFrameRate: tt.rate}
			assert.InDelta(t, tt.want, s.FrameRate(), 0.01)
		})
	}
}
