package content

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/pacclub/pacsite/core"
)

var (
	ErrBadCredentials = errors.New("incorrect password")
	ErrRecordNotFound = errors.New("record not found")
)

// BackendError is a response from the backend with a non-2xx status and,
// when the body allowed it, the backend-provided message.
type BackendError struct {
	StatusCode int
	Message    string
}

func (err *BackendError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return fmt.Sprintf("backend returned %s", http.StatusText(err.StatusCode))
}

// NetworkError means the request never produced a response (connection
// failure, timeout).
type NetworkError struct {
	Err error
}

func (err *NetworkError) Error() string { return "backend unreachable: " + err.Err.Error() }
func (err *NetworkError) Unwrap() error { return err.Err }

// UploadResult is the backend's parsed success body.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Number  string `json:"number,omitempty"`
}

// Backend is the external content service boundary. Implementations live
// under services/backend.
type Backend interface {
	Login(ctx context.Context, password string) error
	List(ctx context.Context, kind Kind) ([]Record, error)
	Upload(ctx context.Context, kind Kind, p *Payload) (UploadResult, error)
	Delete(ctx context.Context, kind Kind, number string) error
}

// ListOptions narrows a listing. Limit keeps the N most recent records
// (tail of the number-ordered list); Search filters by title match.
type ListOptions struct {
	Limit  int
	Search string
}

// Service orchestrates record submissions and listings against the
// backend, and notifies newsletter subscribers about new issues.
type Service struct {
	backend Backend
	mail    core.EmailService
	logger  core.Logger
}

func NewService(backend Backend, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{backend: backend, mail: mailSvc, logger: logger}
}

func (svc *Service) Login(ctx context.Context, password string) error {
	return svc.backend.Login(ctx, password)
}

func (svc *Service) List(ctx context.Context, kind Kind, opts ListOptions) ([]Record, error) {
	recs, err := svc.backend.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if opts.Search != "" {
		recs = SearchRecords(recs, opts.Search)
	}
	if opts.Limit > 0 && len(recs) > opts.Limit {
		recs = recs[len(recs)-opts.Limit:]
	}
	return recs, nil
}

// Get fetches a single record by number.
func (svc *Service) Get(ctx context.Context, kind Kind, number string) (Record, error) {
	recs, err := svc.backend.List(ctx, kind)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range recs {
		if rec.Number == number {
			return rec, nil
		}
	}
	return Record{}, errors.Wrapf(ErrRecordNotFound, "%s #%s", kind, number)
}

func (svc *Service) Delete(ctx context.Context, kind Kind, number string) error {
	return svc.backend.Delete(ctx, kind, number)
}

// Submit validates the form, assembles the multipart payload and sends it
// to the backend. Validation failures never reach the network. The form's
// submission guard is released on every path so the caller can retry.
func (svc *Service) Submit(ctx context.Context, f *Form) (UploadResult, error) {
	if f.submitting {
		return UploadResult{}, ErrSubmitInProgress
	}
	f.submitting = true
	defer func() { f.submitting = false }()

	if err := f.Validate(); err != nil {
		return UploadResult{}, err
	}

	isNew := !f.IsEdit()
	res, err := svc.backend.Upload(ctx, f.kind, f.BuildPayload())
	if err != nil {
		return UploadResult{}, err
	}

	if isNew && f.kind.config().notifySubscribers {
		svc.notifySubscribers(f)
	}
	return res, nil
}

// IsSubmitting reports whether a submission for f is in flight; the admin
// UI disables the submit control while it is.
func (svc *Service) IsSubmitting(f *Form) bool { return f.submitting }

func (svc *Service) notifySubscribers(f *Form) {
	if svc.mail == nil || len(core.Conf.Newsletter.Recipients) == 0 {
		return
	}
	to := make([]mail.Address, 0, len(core.Conf.Newsletter.Recipients))
	for _, addr := range core.Conf.Newsletter.Recipients {
		to = append(to, mail.Address{Address: addr})
	}
	msg := &core.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("PAC Times issue #%s is out: %s", f.Number, f.Title),
		TextContent: fmt.Sprintf(
			"A new issue of PAC Times has been published.\n\nIssue #%s — %s (%s)\n\nRead it on the club site.",
			f.Number, f.Title, f.Date,
		),
	}
	svc.mail.SendMessages(msg)
	if svc.logger != nil {
		svc.logger.Info(fmt.Sprintf("newsletter notice queued for issue #%s", f.Number))
	}
}
