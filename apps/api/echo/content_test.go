package echoapi

import (
	"net/http"
	"testing"

	"github.com/pacclub/pacsite/core"
	"github.com/pacclub/pacsite/core/content"
)

type listedRecord struct {
	Number     string `json:"number"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	CoverImage string `json:"cover_image"`
}

func seedIssues(backend interface {
	Seed(kind content.Kind, recs ...content.Record)
}) {
	backend.Seed(content.KindPACTimes,
		content.Record{Number: "1", Title: "First Light", Date: "2025-01-01", CoverImage: "/static/pac-times/1.jpg"},
		content.Record{Number: "2", Title: "Rocketry Special", Date: "2025-06-01", CoverImage: "/static/pac-times/2.jpg"},
		content.Record{Number: "3", Title: "Eclipse Issue", Date: "2026-03-01", CoverImage: "/static/pac-times/3.jpg"},
	)
}

func TestContentApi_list(t *testing.T) {
	app, backend := setupServer()
	seedIssues(backend)

	req, rec := newRequest(http.MethodGet, "/v1/pac-times")
	app.ServeHTTP(rec, req)

	checkCode(t, rec, http.StatusOK)
	var body struct {
		Issues []listedRecord `json:"issues"`
	}
	decodeBody(t, rec.Body, &body)
	if len(body.Issues) != 3 {
		t.Fatalf("issues = %d, want 3", len(body.Issues))
	}
	// media paths come back resolved against the backend base URL
	want := core.Conf.Backend.BaseURL + "/static/pac-times/1.jpg"
	if body.Issues[0].CoverImage != want {
		t.Errorf("cover = %q, want %q", body.Issues[0].CoverImage, want)
	}
}

func TestContentApi_listFilters(t *testing.T) {
	app, backend := setupServer()
	seedIssues(backend)

	t.Run("limit keeps the most recent", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/pac-times?limit=2")
		app.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var body struct {
			Issues []listedRecord `json:"issues"`
		}
		decodeBody(t, rec.Body, &body)
		if len(body.Issues) != 2 || body.Issues[0].Number != "2" || body.Issues[1].Number != "3" {
			t.Errorf("issues = %+v, want #2 and #3", body.Issues)
		}
	})

	t.Run("search by title", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/pac-times?search=eclipse")
		app.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var body struct {
			Issues []listedRecord `json:"issues"`
		}
		decodeBody(t, rec.Body, &body)
		if len(body.Issues) != 1 || body.Issues[0].Number != "3" {
			t.Errorf("issues = %+v, want #3 only", body.Issues)
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/pac-times?limit=lots")
		app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})
}

func TestContentApi_teams(t *testing.T) {
	app, _ := setupServer()

	req, rec := newRequest(http.MethodGet, "/v1/teams")
	app.ServeHTTP(rec, req)

	checkCode(t, rec, http.StatusOK)
	var body struct {
		Teams []struct {
			Domain  string `json:"domain"`
			Name    string `json:"name"`
			Members []struct {
				Name string `json:"name"`
			} `json:"members"`
		} `json:"teams"`
	}
	decodeBody(t, rec.Body, &body)
	if len(body.Teams) != 1 || body.Teams[0].Name != "Design" || body.Teams[0].Members[0].Name != "Lin Wei" {
		t.Errorf("teams = %+v", body.Teams)
	}
}
