package content

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/pacclub/pacsite/core/media"
)

// Kind identifies one of the content record types managed by the admin area.
type Kind string

const (
	KindPACTimes      Kind = "pac-times"
	KindEvents        Kind = "pac-events"
	KindReadingCircle Kind = "reading-circle"
	KindAlbums        Kind = "photo-albums"
)

var ErrUnknownKind = errors.New("unknown record kind")

// kindConfig parameterizes the generic form/orchestrator per record type
// instead of duplicating four near-identical flows.
type kindConfig struct {
	numberField string
	dateField   string
	listKey     string
	listPath    string
	uploadPath  string
	deletePath  string

	hasSections bool
	hasPhotos   bool
	// requireSectionContent demands at least one of image/heading/body per
	// section. Only PAC Times enforces this; events and reading circle
	// never did. Kept as explicit per-kind configuration.
	requireSectionContent bool
	notifySubscribers     bool
}

var kindConfigs = map[Kind]kindConfig{
	KindPACTimes: {
		numberField:           "issue_number",
		dateField:             "issue_date",
		listKey:               "issues",
		listPath:              "/get_pac_times",
		uploadPath:            "/upload_pac_times",
		deletePath:            "/delete_pac_times",
		hasSections:           true,
		requireSectionContent: true,
		notifySubscribers:     true,
	},
	KindEvents: {
		numberField: "event_number",
		dateField:   "event_date",
		listKey:     "events",
		listPath:    "/get_pac_events",
		uploadPath:  "/upload_pac_event",
		deletePath:  "/delete_pac_event",
		hasSections: true,
	},
	KindReadingCircle: {
		numberField: "event_number",
		dateField:   "event_date",
		listKey:     "events",
		listPath:    "/get_reading_circle",
		uploadPath:  "/upload_reading_circle",
		deletePath:  "/delete_reading_circle",
		hasSections: true,
	},
	KindAlbums: {
		numberField: "album_number",
		dateField:   "album_date",
		listKey:     "albums",
		listPath:    "/get_photo_albums",
		uploadPath:  "/upload_photo_album",
		deletePath:  "/delete_photo_album",
		hasPhotos:   true,
	},
}

func Kinds() []Kind {
	return []Kind{KindPACTimes, KindEvents, KindReadingCircle, KindAlbums}
}

func KindFromString(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(strings.ToLower(s)))
	if _, ok := kindConfigs[k]; !ok {
		return "", errors.Wrap(ErrUnknownKind, s)
	}
	return k, nil
}

func (k Kind) config() kindConfig { return kindConfigs[k] }

func (k Kind) NumberField() string { return k.config().numberField }
func (k Kind) DateField() string   { return k.config().dateField }
func (k Kind) ListKey() string     { return k.config().listKey }
func (k Kind) ListPath() string    { return k.config().listPath }
func (k Kind) UploadPath() string  { return k.config().uploadPath }
func (k Kind) DeletePath() string  { return k.config().deletePath }
func (k Kind) HasSections() bool   { return k.config().hasSections }
func (k Kind) HasPhotos() bool     { return k.config().hasPhotos }

// AssetOrigin tells whether a media slot holds a freshly selected local
// file or an already persisted remote path.
type AssetOrigin int

const (
	AssetNone AssetOrigin = iota
	AssetLocal
	AssetRemote
)

// MediaAsset represents either a local file pending upload or a persisted
// remote path; exactly one of the two is set at a time.
type MediaAsset struct {
	origin     AssetOrigin
	file       *media.File
	remotePath string
}

func LocalAsset(f *media.File) MediaAsset {
	if f == nil {
		return MediaAsset{}
	}
	return MediaAsset{origin: AssetLocal, file: f}
}

func RemoteAsset(path string) MediaAsset {
	if path == "" {
		return MediaAsset{}
	}
	return MediaAsset{origin: AssetRemote, remotePath: path}
}

func (a MediaAsset) Origin() AssetOrigin { return a.origin }
func (a MediaAsset) IsZero() bool        { return a.origin == AssetNone }
func (a MediaAsset) File() *media.File   { return a.file }
func (a MediaAsset) RemotePath() string  { return a.remotePath }

// DisplayURL yields a renderable URL for the asset: a data URI for local
// files, the resolved backend URL for remote paths.
func (a MediaAsset) DisplayURL(baseURL string) string {
	switch a.origin {
	case AssetLocal:
		if p := media.PreviewFile(a.file); p != nil {
			return p.DisplayURL
		}
		return ""
	case AssetRemote:
		return ResolveURL(baseURL, a.remotePath)
	default:
		return ""
	}
}

// Section is one ordered sub-block of a persisted record.
type Section struct {
	Heading string      `json:"heading"`
	Body    string      `json:"body"`
	Image   null.String `json:"image"`
}

// Record is the root entity as served by the backend, one shape for all
// four kinds; unused fields stay zero for kinds that do not carry them.
type Record struct {
	Kind       Kind   `json:"-"`
	Number     string `json:"number"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	UploadDate string `json:"upload_date,omitempty"`
	CoverImage string `json:"cover_image"`

	Sections []Section `json:"sections,omitempty"`

	// events only
	GalleryAlbumID null.String `json:"gallery_album_id,omitempty"`

	// albums only
	Description null.String `json:"description,omitempty"`
	Photos      []string    `json:"photos,omitempty"`
}

// recordJSON is the union of the field names the backend uses across kinds.
type recordJSON struct {
	IssueNumber string `json:"issue_number"`
	EventNumber string `json:"event_number"`
	AlbumNumber string `json:"album_number"`

	Title      string `json:"title"`
	IssueDate  string `json:"issue_date"`
	EventDate  string `json:"event_date"`
	AlbumDate  string `json:"album_date"`
	UploadDate string `json:"upload_date"`
	CoverImage string `json:"cover_image"`

	Heading        string `json:"heading"`
	Body           string `json:"body"`
	GalleryAlbumID string `json:"image_gallery_album_id"`

	Description string    `json:"description"`
	Sections    []Section `json:"sections"`
	Photos      []string  `json:"photos"`
}

// DecodeList parses a backend listing body ({"issues": [...]} etc.) into
// records of the given kind, sorted by ascending record number.
func DecodeList(k Kind, body []byte) ([]Record, error) {
	cfg := k.config()

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrapf(err, "content: decoding %s listing", k)
	}
	items, ok := envelope[cfg.listKey]
	if !ok {
		return nil, errors.Errorf("content: %s listing has no %q key", k, cfg.listKey)
	}

	var raws []recordJSON
	if err := json.Unmarshal(items, &raws); err != nil {
		return nil, errors.Wrapf(err, "content: decoding %s items", k)
	}

	recs := make([]Record, 0, len(raws))
	for _, r := range raws {
		rec := Record{
			Kind:       k,
			Title:      r.Title,
			UploadDate: r.UploadDate,
			CoverImage: r.CoverImage,
		}
		switch k {
		case KindPACTimes:
			rec.Number, rec.Date = r.IssueNumber, r.IssueDate
			rec.Sections = r.Sections
		case KindEvents:
			rec.Number, rec.Date = r.EventNumber, r.EventDate
			rec.Sections = r.Sections
			rec.GalleryAlbumID = null.NewString(r.GalleryAlbumID, r.GalleryAlbumID != "")
			// older event records carry a single heading/body pair instead
			// of a sections array
			if len(rec.Sections) == 0 && (r.Heading != "" || r.Body != "") {
				rec.Sections = []Section{{Heading: r.Heading, Body: r.Body}}
			}
		case KindReadingCircle:
			rec.Number, rec.Date = r.EventNumber, r.EventDate
			rec.Sections = r.Sections
		case KindAlbums:
			rec.Number, rec.Date = r.AlbumNumber, r.AlbumDate
			rec.Description = null.NewString(r.Description, r.Description != "")
			rec.Photos = r.Photos
		}
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, aerr := strconv.Atoi(recs[i].Number)
		b, berr := strconv.Atoi(recs[j].Number)
		if aerr != nil || berr != nil {
			return recs[i].Number < recs[j].Number
		}
		return a < b
	})
	return recs, nil
}

// ResolveURL resolves a backend-relative media path against the backend
// base URL. Absolute URLs and empty paths pass through unchanged.
func ResolveURL(baseURL, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Resolve returns a copy of the record with all media paths resolved
// against baseURL, ready for rendering.
func (r Record) Resolve(baseURL string) Record {
	out := r
	out.CoverImage = ResolveURL(baseURL, r.CoverImage)
	if len(r.Sections) > 0 {
		out.Sections = make([]Section, len(r.Sections))
		for i, s := range r.Sections {
			out.Sections[i] = s
			if s.Image.Valid {
				out.Sections[i].Image = null.StringFrom(ResolveURL(baseURL, s.Image.String))
			}
		}
	}
	if len(r.Photos) > 0 {
		out.Photos = make([]string, len(r.Photos))
		for i, p := range r.Photos {
			out.Photos[i] = ResolveURL(baseURL, p)
		}
	}
	return out
}
