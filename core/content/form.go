package content

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/pacclub/pacsite/core"
	"github.com/pacclub/pacsite/core/media"
)

var (
	ErrSectionIndex     = errors.New("section index out of range")
	ErrPhotoIndex       = errors.New("photo index out of range")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
)

// Compressor re-encodes an image artifact at the given quality.
// Production code uses media.Compress; tests substitute recording fakes.
type Compressor interface {
	Compress(f *media.File, quality int) (*media.File, error)
}

type CompressorFunc func(f *media.File, quality int) (*media.File, error)

func (fn CompressorFunc) Compress(f *media.File, quality int) (*media.File, error) {
	return fn(f, quality)
}

// slot is one image position (the cover or a section image). It tracks the
// original selected file separately from its compressed derivative so a
// quality change always re-derives from the original, never from an
// already-lossy artifact. The token is a per-slot generation counter:
// a compression result is applied only while its token is still current,
// so a slow older compression can never clobber a newer selection.
type slot struct {
	quality    int
	original   *media.File
	compressed *media.File
	existing   string // persisted remote path when editing
	token      uint64
}

func newSlot() slot { return slot{quality: media.DefaultQuality} }

func (s *slot) begin() uint64 {
	s.token++
	return s.token
}

func (s *slot) apply(token uint64, f *media.File) bool {
	if token != s.token {
		return false
	}
	s.compressed = f
	return true
}

func (s *slot) clear() {
	s.original, s.compressed, s.existing = nil, nil, ""
	s.token++
}

// asset reports the slot as a MediaAsset: a new local file wins over a
// persisted remote path.
func (s *slot) asset() MediaAsset {
	if s.compressed != nil {
		return LocalAsset(s.compressed)
	}
	return RemoteAsset(s.existing)
}

type section struct {
	heading string
	body    string
	slot
}

// SectionSnapshot is a read-only view of one section's state.
type SectionSnapshot struct {
	Heading       string
	Body          string
	Image         *media.File
	ExistingImage string
	Quality       int
}

// Form is the admin upload form for a single record: root fields, the
// cover slot and either an ordered resizable section list or a pending
// photo list, depending on the kind. One Form instance belongs to one
// editing session; it is not safe for concurrent use.
type Form struct {
	kind Kind

	Number         string
	Title          string
	Date           string
	Description    string // albums
	GalleryAlbumID string // events

	cover    slot
	sections []section

	photos         []*media.File // albums: compressed, pending upload
	existingPhotos []string
	photoQuality   int

	editing    *Record
	submitting bool

	comp Compressor
}

func NewForm(kind Kind) *Form {
	f := &Form{
		kind:         kind,
		cover:        newSlot(),
		photoQuality: media.DefaultQuality,
		comp:         CompressorFunc(media.Compress),
	}
	if kind.HasSections() {
		f.sections = []section{{slot: newSlot()}}
	}
	return f
}

// SetCompressor swaps the re-encode implementation; mainly for tests.
func (f *Form) SetCompressor(c Compressor) {
	if c != nil {
		f.comp = c
	}
}

func (f *Form) Kind() Kind       { return f.kind }
func (f *Form) IsEdit() bool     { return f.editing != nil }
func (f *Form) Editing() *Record { return f.editing }

// Sections

func (f *Form) SectionCount() int { return len(f.sections) }

// SetSectionCount grows or shrinks the section list to n (clamped to ≥1).
// New sections start blank; truncation drops tail sections along with any
// pending local files, which are not recoverable.
func (f *Form) SetSectionCount(n int) {
	if n < 1 {
		n = 1
	}
	for len(f.sections) < n {
		f.sections = append(f.sections, section{slot: newSlot()})
	}
	if len(f.sections) > n {
		f.sections = f.sections[:n]
	}
}

func (f *Form) SectionAt(i int) (SectionSnapshot, error) {
	if i < 0 || i >= len(f.sections) {
		return SectionSnapshot{}, errors.Wrapf(ErrSectionIndex, "index %d of %d", i, len(f.sections))
	}
	s := f.sections[i]
	return SectionSnapshot{
		Heading:       s.heading,
		Body:          s.body,
		Image:         s.compressed,
		ExistingImage: s.existing,
		Quality:       s.quality,
	}, nil
}

func (f *Form) UpdateHeading(i int, heading string) error {
	if i < 0 || i >= len(f.sections) {
		return errors.Wrapf(ErrSectionIndex, "index %d of %d", i, len(f.sections))
	}
	f.sections[i].heading = heading
	return nil
}

func (f *Form) UpdateBody(i int, body string) error {
	if i < 0 || i >= len(f.sections) {
		return errors.Wrapf(ErrSectionIndex, "index %d of %d", i, len(f.sections))
	}
	f.sections[i].body = body
	return nil
}

// SelectSectionImage stores file as the section's original and derives its
// compressed artifact at the section's current quality. A decode failure
// leaves the slot untouched so the user can pick another file.
func (f *Form) SelectSectionImage(i int, file *media.File) error {
	if i < 0 || i >= len(f.sections) {
		return errors.Wrapf(ErrSectionIndex, "index %d of %d", i, len(f.sections))
	}
	s := &f.sections[i]
	tok := s.begin()
	out, err := f.comp.Compress(file, s.quality)
	if err != nil {
		return err
	}
	if s.apply(tok, out) {
		s.original = file
	}
	return nil
}

// SetSectionQuality re-derives the section's compressed artifact from the
// original (uncompressed) file at the new quality, avoiding compounded
// lossy re-encodes.
func (f *Form) SetSectionQuality(i, quality int) error {
	if i < 0 || i >= len(f.sections) {
		return errors.Wrapf(ErrSectionIndex, "index %d of %d", i, len(f.sections))
	}
	if quality < media.MinQuality || quality > media.MaxQuality {
		return errors.Errorf("quality %d out of range [%d,%d]", quality, media.MinQuality, media.MaxQuality)
	}
	s := &f.sections[i]
	s.quality = quality
	if s.original == nil {
		return nil
	}
	tok := s.begin()
	out, err := f.comp.Compress(s.original, quality)
	if err != nil {
		return err
	}
	s.apply(tok, out)
	return nil
}

func (f *Form) ClearSectionImage(i int) error {
	if i < 0 || i >= len(f.sections) {
		return errors.Wrapf(ErrSectionIndex, "index %d of %d", i, len(f.sections))
	}
	f.sections[i].slot.clear()
	return nil
}

// Cover

func (f *Form) CoverImage() *media.File { return f.cover.compressed }
func (f *Form) CoverAsset() MediaAsset  { return f.cover.asset() }
func (f *Form) CoverQuality() int       { return f.cover.quality }

func (f *Form) SelectCoverImage(file *media.File) error {
	tok := f.cover.begin()
	out, err := f.comp.Compress(file, f.cover.quality)
	if err != nil {
		return err
	}
	if f.cover.apply(tok, out) {
		f.cover.original = file
	}
	return nil
}

func (f *Form) SetCoverQuality(quality int) error {
	if quality < media.MinQuality || quality > media.MaxQuality {
		return errors.Errorf("quality %d out of range [%d,%d]", quality, media.MinQuality, media.MaxQuality)
	}
	f.cover.quality = quality
	if f.cover.original == nil {
		return nil
	}
	tok := f.cover.begin()
	out, err := f.comp.Compress(f.cover.original, quality)
	if err != nil {
		return err
	}
	f.cover.apply(tok, out)
	return nil
}

func (f *Form) ClearCover() { f.cover.clear() }

// Photos (albums)

func (f *Form) Photos() []*media.File    { return f.photos }
func (f *Form) ExistingPhotos() []string { return f.existingPhotos }
func (f *Form) PhotoQuality() int        { return f.photoQuality }

func (f *Form) SetPhotoQuality(quality int) error {
	if quality < media.MinQuality || quality > media.MaxQuality {
		return errors.Errorf("quality %d out of range [%d,%d]", quality, media.MinQuality, media.MaxQuality)
	}
	f.photoQuality = quality
	return nil
}

// AddPhotos compresses each file at the shared photo quality and appends
// it to the pending list. Files that fail to decode are skipped and the
// first such error is returned once the rest have been added.
func (f *Form) AddPhotos(files ...*media.File) error {
	var firstErr error
	for _, file := range files {
		out, err := f.comp.Compress(file, f.photoQuality)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		f.photos = append(f.photos, out)
	}
	return firstErr
}

func (f *Form) RemovePhoto(i int) error {
	if i < 0 || i >= len(f.photos) {
		return errors.Wrapf(ErrPhotoIndex, "index %d of %d", i, len(f.photos))
	}
	f.photos = append(f.photos[:i], f.photos[i+1:]...)
	return nil
}

func (f *Form) RemoveExistingPhoto(path string) {
	kept := f.existingPhotos[:0]
	for _, p := range f.existingPhotos {
		if p != path {
			kept = append(kept, p)
		}
	}
	f.existingPhotos = kept
}

func (f *Form) SetExistingPhotos(paths []string) {
	f.existingPhotos = append([]string(nil), paths...)
}

// Edit mode

// LoadForEdit initializes the form from a persisted record. Sections are
// rebuilt with no local file; each keeps its persisted remote image path
// so an untouched slot submits an existing-image marker instead of a
// binary, and the backend keeps the image as-is.
func (f *Form) LoadForEdit(rec Record) {
	f.Number = rec.Number
	f.Title = rec.Title
	f.Date = rec.Date
	f.Description = rec.Description.String
	f.GalleryAlbumID = rec.GalleryAlbumID.String

	f.cover = newSlot()
	f.cover.existing = rec.CoverImage

	if f.kind.HasSections() {
		n := len(rec.Sections)
		if n < 1 {
			n = 1
		}
		f.sections = make([]section, n)
		for i := range f.sections {
			f.sections[i] = section{slot: newSlot()}
			if i < len(rec.Sections) {
				s := rec.Sections[i]
				f.sections[i].heading = s.Heading
				f.sections[i].body = s.Body
				f.sections[i].existing = s.Image.String
			}
		}
	}
	if f.kind.HasPhotos() {
		f.photos = nil
		f.SetExistingPhotos(rec.Photos)
	}

	recCopy := rec
	f.editing = &recCopy
}

// Reset returns the form to its initial create-mode state.
func (f *Form) Reset() {
	quality := f.cover.quality
	*f = *NewForm(f.kind)
	f.cover.quality = quality
}

// Validate checks the mandatory root fields and, where the kind demands
// it, that every section carries some content. The cover requirement is
// waived when editing a record that already has a persisted cover.
func (f *Form) Validate() error {
	var flds []core.FieldError

	if core.CleanString(f.Number) == "" {
		flds = append(flds, core.FieldError{Field: f.kind.NumberField(), Error: "this field is required"})
	}
	if core.CleanString(f.Title) == "" {
		flds = append(flds, core.FieldError{Field: "title", Error: "this field is required"})
	}
	if f.cover.compressed == nil {
		persisted := f.IsEdit() && f.editing.CoverImage != ""
		if !persisted {
			flds = append(flds, core.FieldError{Field: "cover_image", Error: "a cover image is required"})
		}
	}

	if f.kind.config().requireSectionContent {
		for i, s := range f.sections {
			if s.heading == "" && s.body == "" && s.compressed == nil && s.existing == "" {
				flds = append(flds, core.FieldError{
					Field: fmt.Sprintf("section_%d", i),
					Error: "a section needs at least one of image, heading or body",
				})
			}
		}
	}

	if len(flds) > 0 {
		return core.NewValidationError(errors.New("record is incomplete"), flds...)
	}
	return nil
}

// BuildPayload assembles the multipart field set for submission, using the
// backend's field naming. Untouched image slots in edit mode emit
// existing-image markers instead of binaries so the backend can tell
// "keep" from "delete".
func (f *Form) BuildPayload() *Payload {
	cfg := f.kind.config()
	p := &Payload{}

	p.addField(cfg.numberField, f.Number)
	p.addField("title", f.Title)
	p.addField(cfg.dateField, f.Date)

	if f.kind == KindEvents && f.GalleryAlbumID != "" {
		p.addField("image_gallery_album_id", f.GalleryAlbumID)
	}
	if f.kind == KindAlbums {
		p.addField("description", f.Description)
	}

	if cover := f.cover.compressed; cover != nil {
		p.addFile("cover_image", cover.Name, cover.Data)
	}
	if f.IsEdit() {
		p.addField("is_edit", "true")
		p.addField("old_cover_image", f.editing.CoverImage)
	}

	for i, s := range f.sections {
		if s.compressed != nil {
			p.addFile(fmt.Sprintf("section_%d_image", i), s.compressed.Name, s.compressed.Data)
		} else if f.IsEdit() {
			p.addField(fmt.Sprintf("section_%d_existing_image", i), s.existing)
		}
		p.addField(fmt.Sprintf("section_%d_heading", i), s.heading)
		p.addField(fmt.Sprintf("section_%d_body", i), s.body)
	}

	for i, photo := range f.photos {
		p.addFile(fmt.Sprintf("photo_%d", i), photo.Name, photo.Data)
	}
	for _, path := range f.existingPhotos {
		p.addField("existing_photos[]", path)
	}

	return p
}
