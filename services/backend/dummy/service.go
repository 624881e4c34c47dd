// Package dummybackend is an in-memory content.Backend used by tests and
// local development without the real content service.
package dummybackend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/pacclub/pacsite/core/content"
)

type Service struct {
	password string
	records  map[content.Kind][]content.Record

	// LastPayload keeps the most recent upload for inspection.
	LastPayload *content.Payload

	// Fail, when set, is returned from every call.
	Fail error
}

var _ content.Backend = (*Service)(nil)

func NewService(password string) *Service {
	return &Service{
		password: password,
		records:  make(map[content.Kind][]content.Record),
	}
}

func (svc *Service) Seed(kind content.Kind, recs ...content.Record) {
	for i := range recs {
		recs[i].Kind = kind
	}
	svc.records[kind] = append(svc.records[kind], recs...)
	svc.sortKind(kind)
}

func (svc *Service) Login(_ context.Context, password string) error {
	if svc.Fail != nil {
		return svc.Fail
	}
	if password != svc.password {
		return content.ErrBadCredentials
	}
	return nil
}

func (svc *Service) List(_ context.Context, kind content.Kind) ([]content.Record, error) {
	if svc.Fail != nil {
		return nil, svc.Fail
	}
	return append([]content.Record(nil), svc.records[kind]...), nil
}

func (svc *Service) Delete(_ context.Context, kind content.Kind, number string) error {
	if svc.Fail != nil {
		return svc.Fail
	}
	recs := svc.records[kind]
	for i, rec := range recs {
		if rec.Number == number {
			svc.records[kind] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return &content.BackendError{StatusCode: 404, Message: "record not found"}
}

// Upload applies the same semantics as the real backend: new cover binary
// wins, otherwise edits keep the persisted cover; untouched section slots
// resolve through their existing-image markers.
func (svc *Service) Upload(_ context.Context, kind content.Kind, p *content.Payload) (content.UploadResult, error) {
	if svc.Fail != nil {
		return content.UploadResult{}, svc.Fail
	}
	svc.LastPayload = p

	number, _ := p.FieldValue(kind.NumberField())
	title, _ := p.FieldValue("title")
	if number == "" || title == "" {
		return content.UploadResult{}, &content.BackendError{StatusCode: 400, Message: "Missing required fields"}
	}
	isEdit, _ := p.FieldValue("is_edit")

	rec := content.Record{Kind: kind, Number: number, Title: title}
	rec.Date, _ = p.FieldValue(kind.DateField())
	rec.UploadDate = time.Now().Format("2006-01-02 15:04:05")
	if desc, ok := p.FieldValue("description"); ok {
		rec.Description = null.NewString(desc, desc != "")
	}
	if id, ok := p.FieldValue("image_gallery_album_id"); ok {
		rec.GalleryAlbumID = null.NewString(id, id != "")
	}

	prev, hasPrev := svc.find(kind, number)

	if cover, ok := p.File("cover_image"); ok {
		rec.CoverImage = svc.storedPath(kind, cover.Filename)
	} else if isEdit == "true" && hasPrev {
		rec.CoverImage = prev.CoverImage
	} else {
		return content.UploadResult{}, &content.BackendError{StatusCode: 400, Message: "No cover image provided"}
	}

	for i := 0; ; i++ {
		heading, ok := p.FieldValue(fmt.Sprintf("section_%d_heading", i))
		if !ok {
			break
		}
		body, _ := p.FieldValue(fmt.Sprintf("section_%d_body", i))
		sec := content.Section{Heading: heading, Body: body}
		if img, ok := p.File(fmt.Sprintf("section_%d_image", i)); ok {
			sec.Image = null.StringFrom(svc.storedPath(kind, img.Filename))
		} else if existing, ok := p.FieldValue(fmt.Sprintf("section_%d_existing_image", i)); ok && existing != "" {
			sec.Image = null.StringFrom(existing)
		}
		rec.Sections = append(rec.Sections, sec)
	}

	rec.Photos = append(rec.Photos, p.FieldValues("existing_photos[]")...)
	for i := 0; ; i++ {
		photo, ok := p.File(fmt.Sprintf("photo_%d", i))
		if !ok {
			break
		}
		rec.Photos = append(rec.Photos, svc.storedPath(kind, photo.Filename))
	}

	if hasPrev {
		recs := svc.records[kind]
		for i := range recs {
			if recs[i].Number == number {
				rec.UploadDate = recs[i].UploadDate
				recs[i] = rec
				break
			}
		}
	} else {
		svc.records[kind] = append(svc.records[kind], rec)
	}
	svc.sortKind(kind)

	return content.UploadResult{Success: true, Message: "Upload successful", Number: number}, nil
}

func (svc *Service) find(kind content.Kind, number string) (content.Record, bool) {
	for _, rec := range svc.records[kind] {
		if rec.Number == number {
			return rec, true
		}
	}
	return content.Record{}, false
}

func (svc *Service) storedPath(kind content.Kind, filename string) string {
	return fmt.Sprintf("/static/%s/%s", kind, filename)
}

func (svc *Service) sortKind(kind content.Kind) {
	recs := svc.records[kind]
	sort.SliceStable(recs, func(i, j int) bool {
		a, aerr := strconv.Atoi(recs[i].Number)
		b, berr := strconv.Atoi(recs[j].Number)
		if aerr != nil || berr != nil {
			return recs[i].Number < recs[j].Number
		}
		return a < b
	})
}
