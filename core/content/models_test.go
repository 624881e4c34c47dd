package content

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

func TestKindFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "pac-times", want: KindPACTimes},
		{in: " PAC-Times ", want: KindPACTimes},
		{in: "pac-events", want: KindEvents},
		{in: "reading-circle", want: KindReadingCircle},
		{in: "photo-albums", want: KindAlbums},
		{in: "newsletters", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := KindFromString(tt.in)
			if tt.wantErr {
				if errors.Cause(err) != ErrUnknownKind {
					t.Errorf("KindFromString(%q) error cause = %v, want ErrUnknownKind", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("KindFromString(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("KindFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeList_pacTimes(t *testing.T) {
	body := []byte(`{"issues": [
		{"issue_number": "10", "title": "Tenth", "issue_date": "2026-02-01", "cover_image": "uploads/ten.jpg",
		 "sections": [{"heading": "H", "body": "B", "image": "uploads/s0.jpg"}]},
		{"issue_number": "2", "title": "Second", "issue_date": "2025-06-01", "cover_image": "uploads/two.jpg"}
	]}`)

	recs, err := DecodeList(KindPACTimes, body)
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("DecodeList() len = %d, want 2", len(recs))
	}
	// numeric ordering: 2 before 10
	if recs[0].Number != "2" || recs[1].Number != "10" {
		t.Errorf("DecodeList() order = %s, %s; want 2, 10", recs[0].Number, recs[1].Number)
	}
	ten := recs[1]
	if ten.Kind != KindPACTimes || ten.Title != "Tenth" || ten.Date != "2026-02-01" || ten.CoverImage != "uploads/ten.jpg" {
		t.Errorf("DecodeList() record = %+v", ten)
	}
	if len(ten.Sections) != 1 || ten.Sections[0].Heading != "H" || ten.Sections[0].Image.String != "uploads/s0.jpg" {
		t.Errorf("DecodeList() sections = %+v", ten.Sections)
	}
}

func TestDecodeList_legacyEventShape(t *testing.T) {
	body := []byte(`{"events": [
		{"event_number": "1", "title": "Star Party", "event_date": "2025-01-01", "cover_image": "uploads/sp.jpg",
		 "heading": "Look up", "body": "Telescopes on the lawn", "image_gallery_album_id": "3"}
	]}`)

	recs, err := DecodeList(KindEvents, body)
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("DecodeList() len = %d, want 1", len(recs))
	}
	rec := recs[0]
	// the single heading/body pair of older records becomes one section
	if len(rec.Sections) != 1 || rec.Sections[0].Heading != "Look up" || rec.Sections[0].Body != "Telescopes on the lawn" {
		t.Errorf("DecodeList() sections = %+v", rec.Sections)
	}
	if !rec.GalleryAlbumID.Valid || rec.GalleryAlbumID.String != "3" {
		t.Errorf("DecodeList() galleryAlbumID = %+v", rec.GalleryAlbumID)
	}
}

func TestDecodeList_albums(t *testing.T) {
	body := []byte(`{"albums": [
		{"album_number": "1", "title": "Orientation", "album_date": "2025-08-01", "cover_image": "uploads/o.jpg",
		 "description": "First week", "photos": ["uploads/p0.jpg", "uploads/p1.jpg"]}
	]}`)

	recs, err := DecodeList(KindAlbums, body)
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	rec := recs[0]
	if rec.Description.String != "First week" {
		t.Errorf("DecodeList() description = %+v", rec.Description)
	}
	if len(rec.Photos) != 2 || rec.Photos[1] != "uploads/p1.jpg" {
		t.Errorf("DecodeList() photos = %v", rec.Photos)
	}
}

func TestDecodeList_errors(t *testing.T) {
	if _, err := DecodeList(KindPACTimes, []byte(`not json`)); err == nil {
		t.Error("DecodeList() expected an error for invalid JSON")
	}
	if _, err := DecodeList(KindPACTimes, []byte(`{"events": []}`)); err == nil {
		t.Error("DecodeList() expected an error for a missing envelope key")
	}
}

func TestResolveURL(t *testing.T) {
	base := "http://backend.test:5000"
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty", path: "", want: ""},
		{name: "absolute http", path: "http://cdn.test/a.jpg", want: "http://cdn.test/a.jpg"},
		{name: "absolute https", path: "https://cdn.test/a.jpg", want: "https://cdn.test/a.jpg"},
		{name: "relative with slash", path: "/uploads/a.jpg", want: base + "/uploads/a.jpg"},
		{name: "relative without slash", path: "uploads/a.jpg", want: base + "/uploads/a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(base, tt.path); got != tt.want {
				t.Errorf("ResolveURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecord_Resolve(t *testing.T) {
	base := "http://backend.test:5000"
	rec := Record{
		Kind:       KindPACTimes,
		Number:     "1",
		CoverImage: "uploads/c.jpg",
		Sections: []Section{
			{Heading: "A", Image: null.StringFrom("uploads/s0.jpg")},
			{Heading: "B"}, // no image
		},
		Photos: []string{"uploads/p0.jpg"},
	}

	out := rec.Resolve(base)
	if out.CoverImage != base+"/uploads/c.jpg" {
		t.Errorf("Resolve() cover = %q", out.CoverImage)
	}
	if out.Sections[0].Image.String != base+"/uploads/s0.jpg" {
		t.Errorf("Resolve() section image = %q", out.Sections[0].Image.String)
	}
	if out.Sections[1].Image.Valid {
		t.Errorf("Resolve() empty section image became %+v", out.Sections[1].Image)
	}
	if out.Photos[0] != base+"/uploads/p0.jpg" {
		t.Errorf("Resolve() photo = %q", out.Photos[0])
	}
	// input untouched
	if rec.CoverImage != "uploads/c.jpg" {
		t.Error("Resolve() mutated its receiver")
	}
}
