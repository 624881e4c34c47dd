package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pacclub/pacsite/core/content"
	"github.com/pacclub/pacsite/core/media"
)

// uploadManifest is the on-disk description of one record to submit.
// Image fields hold file paths relative to the manifest's directory;
// existing_* fields hold backend paths to keep as-is when editing.
type uploadManifest struct {
	Number         string `json:"number"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	Description    string `json:"description"`
	GalleryAlbumID string `json:"gallery_album_id"`
	IsEdit         bool   `json:"is_edit"`

	CoverImage   string `json:"cover_image"`
	CoverQuality int    `json:"cover_quality"`

	Sections []struct {
		Heading string `json:"heading"`
		Body    string `json:"body"`
		Image   string `json:"image"`
		Quality int    `json:"quality"`
	} `json:"sections"`

	Photos         []string `json:"photos"`
	PhotoQuality   int      `json:"photo_quality"`
	ExistingPhotos []string `json:"existing_photos"`
}

func (cli *commandLine) upload(kindStr, manifestPath string) error {
	kind, err := content.KindFromString(kindStr)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return errors.Wrapf(err, "reading manifest %s", manifestPath)
	}
	var m uploadManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return errors.Wrapf(err, "parsing manifest %s", manifestPath)
	}
	dir := filepath.Dir(manifestPath)

	ctx := context.Background()
	form := content.NewForm(kind)
	if m.IsEdit {
		rec, err := cli.svc.Get(ctx, kind, m.Number)
		if err != nil {
			return err
		}
		form.LoadForEdit(rec)
	}
	form.Number = m.Number
	form.Title = m.Title
	form.Date = m.Date
	form.Description = m.Description
	form.GalleryAlbumID = m.GalleryAlbumID

	if m.CoverQuality != 0 {
		if err := form.SetCoverQuality(m.CoverQuality); err != nil {
			return err
		}
	}
	if m.CoverImage != "" {
		file, err := readImage(dir, m.CoverImage)
		if err != nil {
			return err
		}
		if err := form.SelectCoverImage(file); err != nil {
			return errors.Wrap(err, "compressing cover image")
		}
	}

	if kind.HasSections() && len(m.Sections) > 0 {
		form.SetSectionCount(len(m.Sections))
		for i, s := range m.Sections {
			if err := form.UpdateHeading(i, s.Heading); err != nil {
				return err
			}
			if err := form.UpdateBody(i, s.Body); err != nil {
				return err
			}
			if s.Quality != 0 {
				if err := form.SetSectionQuality(i, s.Quality); err != nil {
					return err
				}
			}
			if s.Image != "" {
				file, err := readImage(dir, s.Image)
				if err != nil {
					return err
				}
				if err := form.SelectSectionImage(i, file); err != nil {
					return errors.Wrapf(err, "compressing section %d image", i)
				}
			}
		}
	}

	if kind.HasPhotos() {
		if m.PhotoQuality != 0 {
			if err := form.SetPhotoQuality(m.PhotoQuality); err != nil {
				return err
			}
		}
		if m.ExistingPhotos != nil {
			form.SetExistingPhotos(m.ExistingPhotos)
		}
		for _, path := range m.Photos {
			file, err := readImage(dir, path)
			if err != nil {
				return err
			}
			if err := form.AddPhotos(file); err != nil {
				return errors.Wrapf(err, "compressing photo %s", path)
			}
		}
	}

	res, err := cli.svc.Submit(ctx, form)
	if err != nil {
		return err
	}
	logger.Printf("uploaded %s #%s: %s", kind, form.Number, res.Message)
	return nil
}

func readImage(dir, path string) (*media.File, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading image %s", path)
	}
	return &media.File{Name: filepath.Base(path), Data: data}, nil
}
