package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Realistic inspection output for an H.264 MP4 with one audio stream.
const sampleH264 = `Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'clip.mp4':
  Metadata:
    major_brand     : isom
    encoder         : Lavf58.76.100
  Duration: 00:02:37.74, start: 0.000000, bitrate: 5320 kb/s
  Stream #0:0(und): Video: h264 (High) (avc1 / 0x31637661), yuv420p(tv, bt709), 1920x1080 [SAR 1:1 DAR 16:9], 4998 kb/s, 23.98 fps, 23.98 tbr, 24k tbn, 47.95 tbc (default)
  Stream #0:1(und): Audio: aac (LC) (mp4a / 0x6134706D), 48000 Hz, stereo, fltp, 317 kb/s (default)
At least one output file must be specified`

// 10-bit HEVC in Matroska; no stream-level bitrates, fractional-free duration.
const sampleHEVC10 = `Input #0, matroska,webm, from 'master.mkv':
  Duration: 01:12:03.00, start: 0.000000, bitrate: 12844 kb/s
  Stream #0:0: Video: hevc (Main 10), yuv420p10le(tv, bt2020nc/bt2020/smpte2084), 3840x2160 [SAR 1:1 DAR 16:9], 24 fps, 24 tbr, 1k tbn (default)
  Stream #0:1(jpn): Audio: flac, 48000 Hz, stereo, s32 (24 bit)
At least one output file must be specified`

const sampleAudioOnly = `Input #0, mp3, from 'song.mp3':
  Duration: 00:03:12.50, start: 0.025057, bitrate: 192 kb/s
  Stream #0:0: Audio: mp3, 44100 Hz, stereo, fltp, 192 kb/s
At least one output file must be specified`

func TestParseVideoLine(t *testing.T) {
	si := Parse(sampleH264)

	require.NotNil(t, si.VideoCodec)
	assert.Equal(t, "h264", *si.VideoCodec)
	require.NotNil(t, si.Profile)
	assert.Equal(t, "High", *si.Profile)
	require.NotNil(t, si.PixelFormat)
	assert.Equal(t, "yuv420p", *si.PixelFormat)
	require.NotNil(t, si.Width)
	assert.Equal(t, 1920, *si.Width)
	require.NotNil(t, si.Height)
	assert.Equal(t, 1080, *si.Height)
	require.NotNil(t, si.VideoBitrateKbps)
	assert.InDelta(t, 4998, *si.VideoBitrateKbps, 0.01)
}

func TestParseAudioAndDuration(t *testing.T) {
	si := Parse(sampleH264)

	require.NotNil(t, si.AudioBitrateKbps)
	assert.InDelta(t, 317, *si.AudioBitrateKbps, 0.01)
	require.NotNil(t, si.DurationSec)
	assert.InDelta(t, 157.74, *si.DurationSec, 0.001)
	require.NotNil(t, si.ContainerBitrateKbps)
	assert.InDelta(t, 5320, *si.ContainerBitrateKbps, 0.01)
}

func TestParseTenBit(t *testing.T) {
	si := Parse(sampleHEVC10)

	require.NotNil(t, si.VideoCodec)
	assert.Equal(t, "hevc", *si.VideoCodec)
	require.NotNil(t, si.Profile)
	assert.Equal(t, "Main 10", *si.Profile)
	require.NotNil(t, si.PixelFormat)
	assert.Equal(t, "yuv420p10le", *si.PixelFormat)
	require.NotNil(t, si.Width)
	assert.Equal(t, 3840, *si.Width)

	// No per-stream kb/s on either stream line.
	assert.Nil(t, si.VideoBitrateKbps)
	assert.Nil(t, si.AudioBitrateKbps)

	require.NotNil(t, si.DurationSec)
	assert.InDelta(t, 4323.0, *si.DurationSec, 0.001)
}

func TestParseNoVideoStream(t *testing.T) {
	si := Parse(sampleAudioOnly)

	assert.False(t, si.HasVideo())
	assert.Nil(t, si.VideoCodec)
	assert.Nil(t, si.Width)
	require.NotNil(t, si.AudioBitrateKbps)
	assert.InDelta(t, 192, *si.AudioBitrateKbps, 0.01)
	require.NotNil(t, si.DurationSec)
	assert.InDelta(t, 192.5, *si.DurationSec, 0.001)
}

func TestParseGarbage(t *testing.T) {
	si := Parse("not a media file\nrandom noise\n")

	assert.Nil(t, si.VideoCodec)
	assert.Nil(t, si.AudioBitrateKbps)
	assert.Nil(t, si.DurationSec)
	assert.Nil(t, si.ContainerBitrateKbps)
}
