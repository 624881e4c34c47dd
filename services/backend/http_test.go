package backendsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/pacclub/pacsite/core/content"
)

func newTestService(handler http.Handler) (content.Backend, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewService(srv.URL, 5*time.Second), srv
}

func TestService_Login(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/handle_login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm(): %v", err)
		}
		if r.FormValue("password") == "open sesame" {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	svc, srv := newTestService(handler)
	defer srv.Close()
	ctx := context.Background()

	if err := svc.Login(ctx, "open sesame"); err != nil {
		t.Errorf("Login() error = %v", err)
	}
	if err := svc.Login(ctx, "wrong"); errors.Cause(err) != content.ErrBadCredentials {
		t.Errorf("Login(wrong) error = %v, want ErrBadCredentials", err)
	}
}

func TestService_List(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_pac_times" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issues": [
			{"issue_number": "1", "title": "First", "issue_date": "2025-01-01", "cover_image": "uploads/1.jpg"}
		]}`))
	})
	svc, srv := newTestService(handler)
	defer srv.Close()

	recs, err := svc.List(context.Background(), content.KindPACTimes)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 1 || recs[0].Number != "1" || recs[0].Title != "First" {
		t.Errorf("List() = %+v", recs)
	}
}

func TestService_Upload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload_pac_times" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("ParseMultipartForm(): %v", err)
		}
		if got := r.FormValue("issue_number"); got != "3" {
			t.Errorf("issue_number = %q, want 3", got)
		}
		if got := r.FormValue("title"); got != "Third" {
			t.Errorf("title = %q, want Third", got)
		}
		file, header, err := r.FormFile("cover_image")
		if err != nil {
			t.Fatalf("FormFile(cover_image): %v", err)
		}
		defer file.Close()
		if header.Filename != "cover.jpg" {
			t.Errorf("cover filename = %q", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "Upload successful", "issue_number": "3"}`))
	})
	svc, srv := newTestService(handler)
	defer srv.Close()

	p := &content.Payload{
		Fields: []content.Field{
			{Name: "issue_number", Value: "3"},
			{Name: "title", Value: "Third"},
		},
		Files: []content.FilePart{
			{Name: "cover_image", Filename: "cover.jpg", Data: []byte("jpeg-bytes")},
		},
	}
	res, err := svc.Upload(context.Background(), content.KindPACTimes, p)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !res.Success || res.Message != "Upload successful" {
		t.Errorf("Upload() = %+v", res)
	}
	if res.Number != "3" {
		t.Errorf("Upload() number = %q, want the echoed record number", res.Number)
	}
}

func TestService_Upload_backendError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "disk full"}`))
	})
	svc, srv := newTestService(handler)
	defer srv.Close()

	_, err := svc.Upload(context.Background(), content.KindEvents, &content.Payload{})
	var bErr *content.BackendError
	if !errors.As(err, &bErr) {
		t.Fatalf("Upload() error = %T(%v), want *BackendError", err, err)
	}
	if bErr.StatusCode != http.StatusInternalServerError || bErr.Message != "disk full" {
		t.Errorf("Upload() error = %+v, want the backend's status and message", bErr)
	}
}

func TestService_Delete(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/delete_photo_album/2" || r.Method != http.MethodDelete {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})
	svc, srv := newTestService(handler)
	defer srv.Close()

	if err := svc.Delete(context.Background(), content.KindAlbums, "2"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestService_networkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	svc := NewService(srv.URL, time.Second)
	srv.Close() // nothing listens anymore

	err := svc.Login(context.Background(), "whatever")
	var nErr *content.NetworkError
	if !errors.As(err, &nErr) {
		t.Fatalf("Login() error = %T(%v), want *NetworkError", err, err)
	}
}
