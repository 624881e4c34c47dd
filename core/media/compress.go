package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Quality bounds for re-encoding. Higher quality means a larger artifact
// with more fidelity.
const (
	MinQuality     = 1
	MaxQuality     = 100
	DefaultQuality = 80
)

var (
	// ErrDecode is returned when the input is not a decodable image.
	ErrDecode = errors.New("image data could not be decoded")
)

// File is an in-memory media artifact: either a freshly selected upload or
// the output of a re-encode. It keeps its logical name across re-encodes.
type File struct {
	Name string
	Data []byte
}

func (f *File) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// Compress decodes f and re-encodes it as JPEG at the given quality,
// returning a new artifact with the same logical name. The input is never
// mutated; callers that need a different quality later must compress the
// original again, not the returned derivative.
func Compress(f *File, quality int) (*File, error) {
	if f == nil {
		return nil, errors.New("media: no file to compress")
	}
	if quality < MinQuality || quality > MaxQuality {
		return nil, errors.Errorf("media: quality %d out of range [%d,%d]", quality, MinQuality, MaxQuality)
	}

	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("media: re-encoding %q", f.Name))
	}
	return &File{Name: f.Name, Data: buf.Bytes()}, nil
}
