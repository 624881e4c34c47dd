package media

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// Preview is a displayable descriptor for an image slot. A nil Preview
// means "nothing selected": callers hide the preview UI, it is not an error.
type Preview struct {
	DisplayURL string `json:"display_url"`
	SizeLabel  string `json:"size_label,omitempty"`
}

// PreviewFile builds a data-URI preview for a local file along with a
// human-readable size label.
func PreviewFile(f *File) *Preview {
	if f == nil || len(f.Data) == 0 {
		return nil
	}
	ct := http.DetectContentType(f.Data)
	return &Preview{
		DisplayURL: "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(f.Data),
		SizeLabel:  SizeLabel(len(f.Data)),
	}
}

// PreviewURL passes a remote URL through as-is. The size is unknown on
// this side, so no label is computed.
func PreviewURL(url string) *Preview {
	if url == "" {
		return nil
	}
	return &Preview{DisplayURL: url}
}

// SizeLabel formats a byte count in three tiers: bytes, two-decimal KB,
// two-decimal MB.
func SizeLabel(size int) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	}
}
