// Package sound loads the notification sound into an immutable frame
// buffer shared read-only with the render path.
package sound

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Buffer holds the decoded, volume-scaled notification sound. It is
// constructed once at startup and never mutated afterwards, so it is safe
// to read concurrently from the audio goroutine without synchronization.
type Buffer struct {
	// Rate is the source sample rate; the output stream is opened at
	// this rate so no resampling happens on the render path.
	Rate beep.SampleRate

	// Frames are normalized stereo samples. Mono sources come out of the
	// decoders already duplicated across both channels.
	Frames [][2]float64
}

// Len returns the number of frames.
func (b *Buffer) Len() int {
	return len(b.Frames)
}

// Load decodes the audio file at path and scales every sample by volume.
// WAV, OGG and MP3 are supported, chosen by file extension.
func Load(path string, volume float64) (*Buffer, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound file: %w", err)
	}

	buf, err := decode(data, strings.ToLower(filepath.Ext(path)), volume)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Default decodes the embedded click sound scaled by volume.
func Default(volume float64) (*Buffer, error) {
	return decode(defaultClick, ".wav", volume)
}

// byteSource adapts an in-memory byte slice to the reader the decoders
// expect (read, seek and close).
type byteSource struct {
	*bytes.Reader
}

func (byteSource) Close() error { return nil }

func decode(data []byte, ext string, volume float64) (*Buffer, error) {
	rc := byteSource{bytes.NewReader(data)}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(rc)
	case ".ogg":
		streamer, format, err = vorbis.Decode(rc)
	case ".mp3":
		streamer, format, err = mp3.Decode(rc)
	default:
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	frames, err := drain(streamer)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("sound contains no samples")
	}

	for i := range frames {
		frames[i][0] *= volume
		frames[i][1] *= volume
	}

	return &Buffer{Rate: format.SampleRate, Frames: frames}, nil
}

// drain pulls the entire streamer into memory.
func drain(s beep.Streamer) ([][2]float64, error) {
	var frames [][2]float64
	chunk := make([][2]float64, 512)
	for {
		n, ok := s.Stream(chunk)
		frames = append(frames, chunk[:n]...)
		if !ok {
			break
		}
	}
	return frames, s.Err()
}

// Describe returns a short human-readable summary for log lines.
func (b *Buffer) Describe() string {
	return fmt.Sprintf("%d frames at %d Hz (%s)",
		b.Len(), b.Rate, humanize.Bytes(uint64(b.Len()*16)))
}
