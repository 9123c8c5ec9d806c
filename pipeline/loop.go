package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corona10/goimagehash"

	"asciicam/camera"
	"asciicam/display"
	"asciicam/frame"
	"asciicam/glyph"
	"asciicam/tuning"
)

const DefaultFPS = 30

// Outcome describes what a single tick did.
type Outcome int

const (
	Rendered Outcome = iota
	// Dropped means the previous conversion was still publishing.
	Dropped
	// Idle means no usable frame was available.
	Idle
	// Unchanged means the frame matched the last rendered one.
	Unchanged
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case Dropped:
		return "dropped"
	case Idle:
		return "idle"
	case Unchanged:
		return "unchanged"
	default:
		return "failed"
	}
}

type Config struct {
	FPS int
	// SkipDistance enables change detection when positive: a frame whose
	// difference hash is within this Hamming distance of the last rendered
	// frame is not rendered again unless the tuning changed.
	SkipDistance int
}

type Stats struct {
	Rendered, Dropped, Idle, Unchanged, Failed uint64
}

type Loop struct {
	src     camera.Source
	sink    display.Sink
	state   *tuning.State
	sampler *frame.Sampler
	gate    *Gate
	conf    Config
	logger  *slog.Logger

	publishing sync.WaitGroup
	lastHash   *goimagehash.ImageHash
	lastTuning uint64
	counts     [Failed + 1]atomic.Uint64
}

func New(src camera.Source, sink display.Sink, state *tuning.State, sampler *frame.Sampler, conf Config, logger *slog.Logger) *Loop {
	if conf.FPS <= 0 {
		conf.FPS = DefaultFPS
	}
	return &Loop{
		src:     src,
		sink:    sink,
		state:   state,
		sampler: sampler,
		gate:    NewGate(),
		conf:    conf,
		logger:  logger,
	}
}

// Run ticks until ctx is done. The source must already be acquired.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.conf.FPS))
	defer ticker.Stop()

	l.logger.Info("frame loop started", "fps", l.conf.FPS, "skip_distance", l.conf.SkipDistance)
	for {
		select {
		case <-ctx.Done():
			l.Wait()
			s := l.Stats()
			l.logger.Info("stats", "rendered", s.Rendered, "dropped", s.Dropped, "idle", s.Idle,
				"unchanged", s.Unchanged, "failed", s.Failed)
			return nil
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Tick runs one pull, convert and publish cycle. Publishing continues in the
// background and holds the gate until the sink returns.
func (l *Loop) Tick() Outcome {
	o := l.tick()
	l.counts[o].Add(1)
	return o
}

func (l *Loop) tick() Outcome {
	if !l.gate.TryAcquire() {
		return Dropped
	}

	img, err := l.src.Read()
	if err != nil {
		l.gate.Release()
		if !errors.Is(err, camera.ErrNotReady) {
			l.logger.Warn("could not read frame", "error", err)
		}
		return Idle
	}
	if img.Bounds().Empty() {
		l.gate.Release()
		return Idle
	}

	t, version := l.state.Snapshot()
	buf, err := l.sampler.Sample(img, t.GridSize)
	if err != nil {
		l.gate.Release()
		l.logger.Error("could not sample frame", "error", err)
		return Failed
	}
	if buf.Empty() {
		l.gate.Release()
		return Idle
	}

	if l.unchanged(buf, version) {
		l.gate.Release()
		return Unchanged
	}

	grid, err := glyph.Render(buf, t)
	if err != nil {
		l.gate.Release()
		l.logger.Error("could not render frame", "error", err)
		return Failed
	}

	l.publishing.Go(func() {
		defer l.gate.Release()
		if err := l.sink.Publish(grid); err != nil {
			l.logger.Error("could not publish frame", "error", err)
		}
	})
	return Rendered
}

func (l *Loop) unchanged(buf *frame.Buffer, version uint64) bool {
	if l.conf.SkipDistance <= 0 {
		return false
	}

	hash, err := goimagehash.DifferenceHash(buf.Image())
	if err != nil {
		l.logger.Warn("could not hash frame", "error", err)
		return false
	}

	same := false
	if l.lastHash != nil && version == l.lastTuning {
		if d, err := hash.Distance(l.lastHash); err == nil {
			same = d <= l.conf.SkipDistance
		}
	}
	if !same {
		l.lastHash, l.lastTuning = hash, version
	}
	return same
}

// Wait blocks until the in-flight publish, if any, has finished.
func (l *Loop) Wait() {
	l.publishing.Wait()
}

func (l *Loop) Stats() Stats {
	return Stats{
		Rendered:  l.counts[Rendered].Load(),
		Dropped:   l.counts[Dropped].Load(),
		Idle:      l.counts[Idle].Load(),
		Unchanged: l.counts[Unchanged].Load(),
		Failed:    l.counts[Failed].Load(),
	}
}
