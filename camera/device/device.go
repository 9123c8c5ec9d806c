// Package device captures frames from a local camera through OpenCV.
package device

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"gocv.io/x/gocv"

	"asciicam/camera"
)

const (
	idealWidth  = 1280
	idealHeight = 720
)

// Camera reads frames from a video capture device. Read and Close must be
// called from the goroutine driving the frame loop.
type Camera struct {
	ID     int
	logger *slog.Logger

	capture *gocv.VideoCapture
	mat     gocv.Mat
}

var _ camera.Source = (*Camera)(nil)

func New(id int, logger *slog.Logger) *Camera {
	return &Camera{ID: id, logger: logger.With("device", id)}
}

type opened struct {
	capture *gocv.VideoCapture
	err     error
}

// Open waits for the device without a timeout; only ctx ends the wait.
func (c *Camera) Open(ctx context.Context) error {
	done := make(chan opened, 1)
	go func() {
		vc, err := gocv.OpenVideoCapture(c.ID)
		done <- opened{vc, err}
	}()

	var res opened
	select {
	case <-ctx.Done():
		go func() {
			if r := <-done; r.capture != nil {
				_ = r.capture.Close()
			}
		}()
		return ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		return fmt.Errorf("could not open camera %d, please ensure camera permissions are granted: %w", c.ID, res.err)
	}
	if !res.capture.IsOpened() {
		_ = res.capture.Close()
		return fmt.Errorf("camera %d is not available, please ensure camera permissions are granted", c.ID)
	}

	res.capture.Set(gocv.VideoCaptureFrameWidth, idealWidth)
	res.capture.Set(gocv.VideoCaptureFrameHeight, idealHeight)

	c.capture = res.capture
	c.mat = gocv.NewMat()
	c.logger.Info("capture opened",
		"width", res.capture.Get(gocv.VideoCaptureFrameWidth),
		"height", res.capture.Get(gocv.VideoCaptureFrameHeight))
	return nil
}

func (c *Camera) Read() (image.Image, error) {
	if c.capture == nil {
		return nil, camera.ErrNotReady
	}
	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, camera.ErrNotReady
	}

	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("could not convert frame: %w", err)
	}
	return img, nil
}

func (c *Camera) Close() error {
	if c.capture == nil {
		return nil
	}
	if err := c.mat.Close(); err != nil {
		c.logger.Error("could not release frame", "error", err)
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}
