// Package backendsvc implements the content.Backend boundary over the
// external content service's HTTP API.
package backendsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/pacclub/pacsite/core/content"
)

type service struct {
	baseURL string
	client  *http.Client
}

var _ content.Backend = (*service)(nil)

// NewService returns a Backend over the HTTP API at baseURL. The timeout
// bounds every round-trip; an exceeded deadline surfaces as a NetworkError.
func NewService(baseURL string, timeout time.Duration) content.Backend {
	return &service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (svc *service) Login(ctx context.Context, password string) error {
	p := &content.Payload{}
	p.Fields = append(p.Fields, content.Field{Name: "password", Value: password})
	body, contentType, err := encodeMultipart(p)
	if err != nil {
		return err
	}

	resp, err := svc.do(ctx, http.MethodPost, "/handle_login", body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		return nil
	case http.StatusUnauthorized:
		return content.ErrBadCredentials
	default:
		return backendError(resp)
	}
}

func (svc *service) List(ctx context.Context, kind content.Kind) ([]content.Record, error) {
	resp, err := svc.do(ctx, http.MethodGet, kind.ListPath(), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, backendError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &content.NetworkError{Err: err}
	}
	return content.DecodeList(kind, data)
}

func (svc *service) Upload(ctx context.Context, kind content.Kind, p *content.Payload) (content.UploadResult, error) {
	body, contentType, err := encodeMultipart(p)
	if err != nil {
		return content.UploadResult{}, err
	}

	resp, err := svc.do(ctx, http.MethodPost, kind.UploadPath(), body, contentType)
	if err != nil {
		return content.UploadResult{}, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return content.UploadResult{}, &content.BackendError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	var res content.UploadResult
	if err := json.Unmarshal(data, &res); err != nil {
		return content.UploadResult{}, errors.Wrap(err, "backend: decoding upload response")
	}
	// the backend echoes the record number under its kind-specific key
	var echoed map[string]json.RawMessage
	if err := json.Unmarshal(data, &echoed); err == nil {
		if raw, ok := echoed[kind.NumberField()]; ok {
			_ = json.Unmarshal(raw, &res.Number)
		}
	}
	return res, nil
}

func (svc *service) Delete(ctx context.Context, kind content.Kind, number string) error {
	resp, err := svc.do(ctx, http.MethodDelete, kind.DeletePath()+"/"+number, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return backendError(resp)
	}
	return nil
}

func (svc *service) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, svc.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "backend: building %s %s", method, path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := svc.client.Do(req)
	if err != nil {
		return nil, &content.NetworkError{Err: err}
	}
	return resp, nil
}

// encodeMultipart serializes a payload: scalar fields first, then file
// parts, preserving order within each group.
func encodeMultipart(p *content.Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range p.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", errors.Wrapf(err, "backend: writing field %s", f.Name)
		}
	}
	for _, f := range p.Files {
		part, err := w.CreateFormFile(f.Name, f.Filename)
		if err != nil {
			return nil, "", errors.Wrapf(err, "backend: writing file part %s", f.Name)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", errors.Wrapf(err, "backend: writing file part %s", f.Name)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "backend: closing multipart body")
	}
	return &buf, w.FormDataContentType(), nil
}

func backendError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	return &content.BackendError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
}

func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error
}
