// Package camera supplies the frames rendered by the live loop.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
)

var (
	// ErrNotReady is returned by Read while no frame is available yet.
	ErrNotReady = errors.New("frame not ready")
	// ErrUnavailable marks a failed acquisition. It ends the session.
	ErrUnavailable = errors.New("could not access frame source")
)

// Source is a continuously updated frame supplier.
type Source interface {
	// Open acquires the device. It may block until the device answers or ctx
	// is done.
	Open(ctx context.Context) error
	// Read returns the latest frame or ErrNotReady.
	Read() (image.Image, error)
	Close() error
}

// Acquire opens src once. Any failure is reported as ErrUnavailable and must
// not be retried. The failure is returned, not logged.
func Acquire(ctx context.Context, logger *slog.Logger, src Source) error {
	logger.Info("initializing camera")
	if err := src.Open(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	logger.Info("camera ready")
	return nil
}

// Still serves the same image on every Read.
type Still struct {
	Image image.Image
	open  bool
}

func (s *Still) Open(context.Context) error {
	if s.Image == nil {
		return fmt.Errorf("no image")
	}
	s.open = true
	return nil
}

func (s *Still) Read() (image.Image, error) {
	if !s.open {
		return nil, ErrNotReady
	}
	return s.Image, nil
}

func (s *Still) Close() error {
	s.open = false
	return nil
}
