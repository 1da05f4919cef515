package playback

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gopxl/beep/v2/speaker"

	"github.com/SludgePhD/clickd/internal/sound"
	"github.com/SludgePhD/clickd/internal/trigger"
)

// Engine owns the speaker stream. The output is opened at the sound's
// own sample rate so the render path does no resampling.
type Engine struct {
	logger   *slog.Logger
	renderer *Renderer
	buf      *sound.Buffer
	running  bool
}

// NewEngine creates an engine rendering buf on activations from latch.
func NewEngine(buf *sound.Buffer, latch *trigger.Latch, queueWhileBusy bool, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:   logger,
		renderer: NewRenderer(buf, latch, queueWhileBusy),
		buf:      buf,
	}
}

// Start opens the output stream and attaches the renderer. Failure to
// open the stream is fatal to the process: the render path cannot be
// replaced while running.
func (e *Engine) Start() error {
	if e.running {
		return nil
	}

	// 50ms keeps the press-to-click latency low without underruns.
	bufferSize := e.buf.Rate.N(50 * time.Millisecond)
	if err := speaker.Init(e.buf.Rate, bufferSize); err != nil {
		return fmt.Errorf("failed to open audio output: %w", err)
	}

	speaker.Play(e.renderer)
	e.running = true

	e.logger.Info("audio output started",
		"sample_rate", int(e.buf.Rate), "buffer_frames", bufferSize)
	return nil
}

// Stop tears down the output stream.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	speaker.Close()
	e.running = false
	e.logger.Debug("audio output stopped")
}
