package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

// testJPEG encodes a deterministic noisy image; noise keeps the artifact
// size sensitive to the encoding quality.
func testJPEG(t *testing.T) []byte {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("jpeg.Encode(): %v", err)
	}
	return buf.Bytes()
}

func TestCompress(t *testing.T) {
	src := &File{Name: "pic.jpg", Data: testJPEG(t)}
	origData := append([]byte(nil), src.Data...)

	out, err := Compress(src, 50)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if out == src {
		t.Error("Compress() returned its input instead of a new artifact")
	}
	if out.Name != src.Name {
		t.Errorf("Compress() name = %q, want %q", out.Name, src.Name)
	}
	if out.Size() == 0 {
		t.Error("Compress() produced an empty artifact")
	}
	if !bytes.Equal(src.Data, origData) {
		t.Error("Compress() mutated its input")
	}
}

func TestCompress_qualityAffectsSize(t *testing.T) {
	src := &File{Name: "pic.jpg", Data: testJPEG(t)}

	low, err := Compress(src, 20)
	if err != nil {
		t.Fatalf("Compress(20) error = %v", err)
	}
	high, err := Compress(src, 95)
	if err != nil {
		t.Fatalf("Compress(95) error = %v", err)
	}
	if low.Size() >= high.Size() {
		t.Errorf("Compress() sizes: quality 20 = %d, quality 95 = %d; want lower quality to be smaller", low.Size(), high.Size())
	}
}

func TestCompress_errors(t *testing.T) {
	valid := &File{Name: "pic.jpg", Data: testJPEG(t)}

	tests := []struct {
		name          string
		file          *File
		quality       int
		wantDecodeErr bool
	}{
		{name: "nil file", quality: 80},
		{name: "quality too low", file: valid, quality: 0},
		{name: "quality too high", file: valid, quality: 101},
		{name: "not an image", file: &File{Name: "nope.txt", Data: []byte("definitely not an image")}, quality: 80, wantDecodeErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compress(tt.file, tt.quality)
			if err == nil {
				t.Fatal("Compress() expected an error")
			}
			if tt.wantDecodeErr && errors.Cause(err) != ErrDecode {
				t.Errorf("Compress() error cause = %v, want ErrDecode", errors.Cause(err))
			}
		})
	}
}

func TestFile_Size(t *testing.T) {
	var f *File
	if f.Size() != 0 {
		t.Errorf("nil File Size() = %d, want 0", f.Size())
	}
	if got := (&File{Data: make([]byte, 3)}).Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
}
