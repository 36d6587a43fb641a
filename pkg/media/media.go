// Package media downloads and decodes the images drawn into a card: avatars,
// photos and the preview stills of videos and GIFs.
//
// Bytes are sniffed with h2non/filetype before decoding so that an HTML error
// page served with a 200 status is rejected instead of failing deep inside a
// decoder. Decoding and resizing use disintegration/imaging; WebP support is
// registered from golang.org/x/image/webp.
package media

import (
	"bytes"
	"context"
	"image"
	"math"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/postcard/pkg/cache"
	perrors "github.com/matzehuels/postcard/pkg/errors"
)

// Fetcher downloads raw bytes, caching them under key.
// [integrations.Client] satisfies it.
type Fetcher interface {
	GetBytes(ctx context.Context, key, url string) ([]byte, error)
}

// allowedTypes are the image formats the decoder accepts.
var allowedTypes = map[string]struct{}{
	"jpg": {}, "png": {}, "gif": {}, "webp": {}, "bmp": {}, "tif": {},
}

// Loader fetches and decodes images.
type Loader struct {
	fetcher Fetcher
	keyer   cache.Keyer
	logger  *log.Logger
}

// NewLoader creates a loader. A nil keyer uses [cache.NewDefaultKeyer].
func NewLoader(f Fetcher, keyer cache.Keyer, logger *log.Logger) *Loader {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{fetcher: f, keyer: keyer, logger: logger}
}

// Load downloads url and decodes it.
func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	if err := perrors.ValidateURL(url); err != nil {
		return nil, err
	}
	data, err := l.fetcher.GetBytes(ctx, l.keyer.MediaKey(url), url)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, perrors.Wrap(perrors.GetCode(err), err, "decode %s", url)
	}
	l.logger.Debug("loaded media", "url", url, "bytes", len(data), "size", img.Bounds().Size())
	return img, nil
}

// LoadAll loads every url in order. Failed images are logged and left nil so
// the card can still be drawn with placeholders; only context cancellation
// aborts.
func (l *Loader) LoadAll(ctx context.Context, urls []string) ([]image.Image, error) {
	out := make([]image.Image, len(urls))
	for i, u := range urls {
		if u == "" {
			continue
		}
		img, err := l.Load(ctx, u)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			l.logger.Warn("media unavailable", "url", u, "error", err)
			continue
		}
		out[i] = img
	}
	return out, nil
}

// Sniff returns the detected type of data. It fails for anything that is not
// an accepted image format.
func Sniff(data []byte) (types.Type, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return types.Unknown, perrors.New(perrors.ErrCodeUnsupported, "unrecognized media type")
	}
	if _, ok := allowedTypes[kind.Extension]; !ok {
		return kind, perrors.New(perrors.ErrCodeUnsupported, "media type %s is not an image", kind.MIME.Value)
	}
	return kind, nil
}

// Decode sniffs and decodes image bytes, applying EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	if _, err := Sniff(data); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode image")
	}
	return img, nil
}

// Resize scales img to exactly w x h pixels (rounded) without preserving
// aspect ratio. Callers compute the aspect-correct size beforehand.
func Resize(img image.Image, w, h float64) image.Image {
	iw, ih := max(int(math.Round(w)), 1), max(int(math.Round(h)), 1)
	if b := img.Bounds(); b.Dx() == iw && b.Dy() == ih {
		return img
	}
	return imaging.Resize(img, iw, ih, imaging.Lanczos)
}

// Square crops img to a centered square and scales it to size pixels.
func Square(img image.Image, size float64) image.Image {
	s := max(int(math.Round(size)), 1)
	return imaging.Fill(img, s, s, imaging.Center, imaging.Lanczos)
}
