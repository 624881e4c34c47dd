package echoapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pacclub/pacsite/core"
	"github.com/pacclub/pacsite/core/content"
	"github.com/pacclub/pacsite/core/media"
)

type adminApi struct {
	svc *content.Service
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *content.Service) {
	api := adminApi{svc: svc}

	// un-authed endpoints
	g.POST("/login", api.login)

	// authed endpoints
	ag := g.Group("", jwt, adminMiddleware())
	for _, kind := range content.Kinds() {
		ag.POST("/"+string(kind), api.uploadHandler(kind))
		ag.DELETE("/"+string(kind)+"/:number", api.deleteHandler(kind))
	}
	ag.POST("/preview", api.preview)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.Login(ctx.Request().Context(), data.Password); err != nil {
		return errors.Wrap(err, "logging in")
	}
	token, err := GenerateToken(newAdminClaims())
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *adminApi) uploadHandler(kind content.Kind) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		form, err := api.bindRecordForm(ctx, kind)
		if err != nil {
			return err
		}

		res, err := api.svc.Submit(ctx.Request().Context(), form)
		if err != nil {
			return errors.Wrapf(err, "submitting %s", kind)
		}
		return ctx.JSON(http.StatusOK, res)
	}
}

func (api *adminApi) deleteHandler(kind content.Kind) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		number := ctx.Param("number")
		if err := api.svc.Delete(ctx.Request().Context(), kind, number); err != nil {
			return errors.Wrapf(err, "deleting %s #%s", kind, number)
		}
		return ctx.NoContent(http.StatusNoContent)
	}
}

// preview renders a displayable descriptor for an image before it is ever
// submitted: a data URI with a size label for an uploaded file, the URL
// as-is for a remote image, null when neither is supplied.
func (api *adminApi) preview(ctx echo.Context) error {
	file, err := formFile(ctx, "file")
	if err != nil {
		return err
	}
	if file != nil {
		return ctx.JSON(http.StatusOK, media.PreviewFile(file))
	}
	if url := ctx.FormValue("url"); url != "" {
		return ctx.JSON(http.StatusOK, media.PreviewURL(url))
	}
	return ctx.JSON(http.StatusOK, nil)
}

// Form binding

// bindRecordForm builds a content.Form from the multipart request. In edit
// mode the persisted record is loaded first so untouched image slots keep
// their existing paths.
func (api *adminApi) bindRecordForm(ctx echo.Context, kind content.Kind) (*content.Form, error) {
	var data recordRequest
	if err := ctx.Bind(&data); err != nil {
		return nil, errors.Wrap(err, "binding record form")
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	form := content.NewForm(kind)
	if data.IsEdit {
		rec, err := api.svc.Get(ctx.Request().Context(), kind, data.Number)
		if err != nil {
			return nil, errors.Wrap(err, "loading record for edit")
		}
		form.LoadForEdit(rec)
	}
	form.Number = data.Number
	form.Title = data.Title
	form.Date = data.Date
	form.Description = data.Description
	form.GalleryAlbumID = data.GalleryAlbumID

	if data.CoverQuality != 0 {
		if err := form.SetCoverQuality(data.CoverQuality); err != nil {
			return nil, err
		}
	}
	if file, err := formFile(ctx, "cover_image"); err != nil {
		return nil, err
	} else if file != nil {
		if err := form.SelectCoverImage(file); err != nil {
			return nil, errors.Wrap(err, "compressing cover image")
		}
	}

	mf, err := ctx.MultipartForm()
	if err != nil && err != http.ErrNotMultipart {
		return nil, errors.Wrap(err, "reading multipart form")
	}
	if mf == nil {
		return form, nil
	}

	if kind.HasSections() {
		if err := bindSections(form, mf); err != nil {
			return nil, err
		}
	}
	if kind.HasPhotos() {
		if data.PhotoQuality != 0 {
			if err := form.SetPhotoQuality(data.PhotoQuality); err != nil {
				return nil, err
			}
		}
		if vals, ok := mf.Value["existing_photos[]"]; ok {
			form.SetExistingPhotos(vals)
		}
		for _, fh := range mf.File["photos"] {
			file, err := readFileHeader(fh)
			if err != nil {
				return nil, err
			}
			if err := form.AddPhotos(file); err != nil {
				return nil, errors.Wrapf(err, "compressing photo %s", fh.Filename)
			}
		}
	}
	return form, nil
}

var sectionKeyRegex = regexp.MustCompile(`^section_(\d+)_`)

func bindSections(form *content.Form, mf *multipart.Form) error {
	count := sectionCount(mf)
	if count == 0 { // nothing posted; keep whatever the form already holds
		return nil
	}
	form.SetSectionCount(count)

	for i := 0; i < count; i++ {
		prefix := fmt.Sprintf("section_%d_", i)
		if v, ok := firstValue(mf, prefix+"heading"); ok {
			if err := form.UpdateHeading(i, v); err != nil {
				return err
			}
		}
		if v, ok := firstValue(mf, prefix+"body"); ok {
			if err := form.UpdateBody(i, v); err != nil {
				return err
			}
		}
		// quality before image so a fresh file is compressed at the
		// requested quality right away
		if v, ok := firstValue(mf, prefix+"quality"); ok {
			q, err := strconv.Atoi(v)
			if err != nil {
				return core.NewValidationError(nil, core.FieldError{Field: prefix + "quality", Error: "must be an integer"})
			}
			if err := form.SetSectionQuality(i, q); err != nil {
				return err
			}
		}
		if fhs := mf.File[prefix+"image"]; len(fhs) > 0 {
			file, err := readFileHeader(fhs[0])
			if err != nil {
				return err
			}
			if err := form.SelectSectionImage(i, file); err != nil {
				return errors.Wrapf(err, "compressing section %d image", i)
			}
		}
	}
	return nil
}

// sectionCount derives the posted section list length from the highest
// section_<i>_* index present in the request.
func sectionCount(mf *multipart.Form) int {
	maxIdx := -1
	scan := func(key string) {
		m := sectionKeyRegex.FindStringSubmatch(key)
		if m == nil {
			return
		}
		if i, err := strconv.Atoi(m[1]); err == nil && i > maxIdx {
			maxIdx = i
		}
	}
	for key := range mf.Value {
		scan(key)
	}
	for key := range mf.File {
		scan(key)
	}
	return maxIdx + 1
}

func firstValue(mf *multipart.Form, key string) (string, bool) {
	if vals, ok := mf.Value[key]; ok && len(vals) > 0 {
		return vals[0], true
	}
	return "", false
}

func formFile(ctx echo.Context, name string) (*media.File, error) {
	fh, err := ctx.FormFile(name)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading form file %s", name)
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (*media.File, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", fh.Filename)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fh.Filename)
	}
	return &media.File{Name: fh.Filename, Data: data}, nil
}

type (
	LoginRequest struct {
		Password string `json:"password" form:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	recordRequest struct {
		Number         string `json:"number" form:"number" validate:"required,numeric"`
		Title          string `json:"title" form:"title" validate:"required"`
		Date           string `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
		Description    string `json:"description" form:"description"`
		GalleryAlbumID string `json:"gallery_album_id" form:"gallery_album_id"`
		IsEdit         bool   `json:"is_edit" form:"is_edit"`
		CoverQuality   int    `json:"cover_quality" form:"cover_quality" validate:"omitempty,min=1,max=100"`
		PhotoQuality   int    `json:"photo_quality" form:"photo_quality" validate:"omitempty,min=1,max=100"`
	}
)

func (lr *LoginRequest) Validate() error {
	return core.Validate.Struct(lr)
}

func (rr *recordRequest) Validate() error {
	rr.Number = core.CleanString(rr.Number)
	rr.Title = core.CleanString(rr.Title)
	rr.Date = core.CleanString(rr.Date)
	return core.Validate.Struct(rr)
}
