package camera

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Files plays back the images of a file or directory as a frame sequence,
// advancing one image per Read and wrapping at the end.
type Files struct {
	Path string

	frames []image.Image
	next   int
}

func (f *Files) Open(ctx context.Context) error {
	paths, err := ListImages(f.Path)
	if err != nil {
		return err
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := DecodeFile(p)
		if err != nil {
			slog.Warn("skipping undecodable frame", "file", p, "error", err)
			continue
		}
		f.frames = append(f.frames, img)
	}

	if len(f.frames) == 0 {
		return fmt.Errorf("no decodable images in %q", f.Path)
	}
	return nil
}

func (f *Files) Read() (image.Image, error) {
	if len(f.frames) == 0 {
		return nil, ErrNotReady
	}
	img := f.frames[f.next]
	f.next = (f.next + 1) % len(f.frames)
	return img, nil
}

func (f *Files) Close() error {
	f.frames = nil
	f.next = 0
	return nil
}

// ListImages returns path itself when it is a regular file, or the regular
// files directly inside it in name order.
func ListImages(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %q: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", path, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(path, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

func DecodeFile(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", name, "error", closeErr)
		}
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", name, err)
	}
	return img, nil
}
