package media

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestPreviewFile(t *testing.T) {
	data := testJPEG(t)

	p := PreviewFile(&File{Name: "pic.jpg", Data: data})
	if p == nil {
		t.Fatal("PreviewFile() = nil, want a preview")
	}
	prefix := "data:image/jpeg;base64,"
	if !strings.HasPrefix(p.DisplayURL, prefix) {
		t.Fatalf("PreviewFile() DisplayURL prefix = %.40q, want %q", p.DisplayURL, prefix)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(p.DisplayURL, prefix))
	if err != nil {
		t.Fatalf("decoding DisplayURL: %v", err)
	}
	if len(decoded) != len(data) {
		t.Errorf("decoded payload size = %d, want %d", len(decoded), len(data))
	}
	if p.SizeLabel != SizeLabel(len(data)) {
		t.Errorf("SizeLabel = %q, want %q", p.SizeLabel, SizeLabel(len(data)))
	}

	if got := PreviewFile(nil); got != nil {
		t.Errorf("PreviewFile(nil) = %v, want nil", got)
	}
	if got := PreviewFile(&File{Name: "empty.jpg"}); got != nil {
		t.Errorf("PreviewFile(empty) = %v, want nil", got)
	}
}

func TestPreviewURL(t *testing.T) {
	url := "http://backend.test/uploads/a.jpg"
	p := PreviewURL(url)
	if p == nil {
		t.Fatal("PreviewURL() = nil, want a preview")
	}
	if p.DisplayURL != url {
		t.Errorf("DisplayURL = %q, want %q", p.DisplayURL, url)
	}
	if p.SizeLabel != "" {
		t.Errorf("SizeLabel = %q, want empty", p.SizeLabel)
	}

	if got := PreviewURL(""); got != nil {
		t.Errorf("PreviewURL(\"\") = %v, want nil", got)
	}
}

func TestSizeLabel(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{900 * 1024, "900.00 KB"},
		{1024 * 1024, "1.00 MB"},
		{5*1024*1024 + 512*1024, "5.50 MB"},
	}
	for _, tt := range tests {
		if got := SizeLabel(tt.size); got != tt.want {
			t.Errorf("SizeLabel(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
