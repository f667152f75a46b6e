package stage

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Registered decoders for the catalog's image formats.
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/marloweav/heritagehall/pkg/media"
)

// Target resolution for published frames.
const (
	FrameWidth  = 1280
	FrameHeight = 720
)

// Compile-time interface check.
var _ ImageLoader = (*FileLoader)(nil)

// FileLoader loads exhibit images from disk and scales them to the fixed
// target resolution. It is stateless and safe for concurrent use.
type FileLoader struct {
	root   string
	width  int
	height int
}

// NewFileLoader creates a loader resolving image paths relative to root.
// An empty root resolves paths relative to the working directory.
func NewFileLoader(root string) *FileLoader {
	return &FileLoader{root: root, width: FrameWidth, height: FrameHeight}
}

// Load implements [ImageLoader]: open, decode, and scale the image at path
// into a whole RGBA frame. The context is checked before the decode so a
// cancelled slideshow does not pay for work it will discard.
func (l *FileLoader) Load(ctx context.Context, path string) (media.Frame, error) {
	if err := ctx.Err(); err != nil {
		return media.Frame{}, err
	}

	full := path
	if l.root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(l.root, path)
	}

	f, err := os.Open(full)
	if err != nil {
		return media.Frame{}, fmt.Errorf("stage: open image %q: %w", full, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return media.Frame{}, fmt.Errorf("stage: decode image %q: %w", full, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return media.Frame{
		Data:   dst.Pix,
		Width:  l.width,
		Height: l.height,
	}, nil
}
