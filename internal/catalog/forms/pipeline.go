// Package forms implements the validate-then-submit pipeline behind the
// new-book form: draft state, field coercion, cover preview, and the guarded
// submission that keeps the book store's visible page consistent.
package forms

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/openshelf/openshelf/internal/catalog/model"
	"github.com/openshelf/openshelf/logging"
)

// Books is the slice of the book store the pipeline depends on.
type Books interface {
	Add(ctx context.Context, draft model.BookDraft) error
	GetAll(ctx context.Context, page int) error
	CurrentPage() int
}

// Pipeline owns one form's draft, validation errors, and cover preview. One
// instance per form mount; Close it when the owning UI goes away.
type Pipeline struct {
	books   Books
	logger  *logging.Logger
	onClose func()

	mu         sync.Mutex
	draft      model.BookDraft
	errors     model.FieldErrors
	preview    string
	submitting bool
	submitErr  string
	closed     bool
}

// New constructs a pipeline with a fresh default draft. onClose is invoked
// after a successful submission so the enclosing UI can dismiss the form;
// it and logger may be nil.
func New(books Books, onClose func(), logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Discard()
	}
	if onClose == nil {
		onClose = func() {}
	}
	return &Pipeline{
		books:   books,
		logger:  logger,
		onClose: onClose,
		draft:   model.NewBookDraft(),
		errors:  make(model.FieldErrors),
	}
}

// HandleChange updates a single draft field from raw user input and reruns
// validation over the whole draft. Quantity input is coerced: numeric values
// are clamped to at least 1, non-numeric input is kept aside so validation
// flags it instead of the form crashing.
func (p *Pipeline) HandleChange(field, raw string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	switch field {
	case model.FieldTitle:
		p.draft.Title = raw
	case model.FieldAuthor:
		p.draft.Author = raw
	case model.FieldQuantity:
		if qty, ok := parseQuantity(raw); ok {
			if qty < 1 {
				qty = 1
			}
			p.draft.Quantity = qty
			p.draft.RawQuantity = ""
		} else {
			p.draft.RawQuantity = raw
		}
	}

	p.errors = Validate(p.draft)
}

// HandleCover reads the selected file, derives a data-URL preview, and
// installs preview and cover together so a concurrent render never observes
// one without the other. The media type is sniffed from the file's bytes.
func (p *Pipeline) HandleCover(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	mediaType := http.DetectContentType(data)
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	preview := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.preview = preview
	p.draft.Cover = &model.CoverFile{Name: name, Type: mediaType, Data: data}
	p.errors = Validate(p.draft)
	return nil
}

// Submit revalidates the draft and, if it is clean, creates the book and
// refreshes the store's current page before resetting the form. Validation
// failures abort with no network call and leave the errors visible.
// Transport errors are returned to the caller and recorded on the pipeline
// state.
func (p *Pipeline) Submit(ctx context.Context) error {
	p.mu.Lock()
	if p.closed || p.submitting {
		p.mu.Unlock()
		return nil
	}
	p.errors = Validate(p.draft)
	if len(p.errors) > 0 {
		p.mu.Unlock()
		return nil
	}
	p.submitting = true
	p.submitErr = ""
	draft := p.draft
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.submitting = false
		p.mu.Unlock()
	}()

	if err := p.books.Add(ctx, draft); err != nil {
		p.logger.Error("Books", "create failed", err, map[string]any{"title": draft.Title})
		p.setSubmitError(err)
		return err
	}

	// The refresh must observe the completed add; it is issued only after
	// Add has returned.
	if err := p.books.GetAll(ctx, p.books.CurrentPage()); err != nil {
		p.logger.Error("Books", "refresh failed", err, nil)
		p.setSubmitError(err)
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.resetLocked()
	p.mu.Unlock()

	p.logger.Info("Books", "book created", map[string]any{"title": draft.Title})
	p.onClose()
	return nil
}

// Reset discards the draft, preview, and errors, e.g. when the user cancels.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.resetLocked()
}

func (p *Pipeline) resetLocked() {
	p.draft = model.NewBookDraft()
	p.errors = make(model.FieldErrors)
	p.preview = ""
	p.submitErr = ""
}

// Prefill fills title and author only where the user has not typed anything
// yet, then revalidates.
func (p *Pipeline) Prefill(title, author string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if strings.TrimSpace(p.draft.Title) == "" && strings.TrimSpace(title) != "" {
		p.draft.Title = strings.TrimSpace(title)
	}
	if strings.TrimSpace(p.draft.Author) == "" && strings.TrimSpace(author) != "" {
		p.draft.Author = strings.TrimSpace(author)
	}
	p.errors = Validate(p.draft)
}

// Draft returns a copy of the current draft.
func (p *Pipeline) Draft() model.BookDraft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// Errors returns a copy of the current field errors.
func (p *Pipeline) Errors() model.FieldErrors {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make(model.FieldErrors, len(p.errors))
	for k, v := range p.errors {
		cp[k] = v
	}
	return cp
}

// Preview returns the cover's data-URL preview, or "" when no cover is set.
func (p *Pipeline) Preview() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.preview
}

// Submitting reports whether a submission is in flight.
func (p *Pipeline) Submitting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitting
}

// SubmitError returns the last submission's transport error message, or "".
func (p *Pipeline) SubmitError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitErr
}

// Close marks the owning UI as gone; later continuations become no-ops.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.submitting = false
}

func (p *Pipeline) setSubmitError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.submitErr = err.Error()
}

func parseQuantity(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	if qty, err := strconv.Atoi(trimmed); err == nil {
		return qty, true
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return int(f), true
	}
	return 0, false
}
