// Package session coordinates one interactive classification session: the
// selection, submissions, the displayed result, the history and the KPIs.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/triage/internal/api"
	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/history"
	"github.com/Veraticus/triage/internal/input"
	"github.com/Veraticus/triage/internal/kpi"
	"github.com/Veraticus/triage/internal/model"
	"github.com/Veraticus/triage/internal/render"
	"github.com/Veraticus/triage/internal/service"
	"github.com/google/uuid"
)

// Status messages.
const (
	MsgNothingToSubmit = "Paste some text or select a file."
	MsgProcessingText  = "Processing text…"
	MsgDoneFile        = "Done. File removed from selection."
	MsgDoneText        = "Done."
	MsgFailed          = "Error: failed to process"
	MsgReset           = "Session reset."
	MsgCopied          = "Response copied ✓"
	MsgFileRemoved     = "File removed. You can paste text or choose another file."
	MsgNothingToCopy   = "No response to copy yet."
)

// DefaultKPITimeout bounds one backend KPI refresh.
const DefaultKPITimeout = 5 * time.Second

// StatusKind selects how a status line is styled.
type StatusKind int

// Status kinds.
const (
	StatusInfo StatusKind = iota
	StatusBusy
	StatusSuccess
	StatusError
)

// Status is the single status line under the form.
type Status struct {
	Text string
	Kind StatusKind
}

// Controller owns the state of one session. All methods are safe for
// concurrent use; at most one submission runs at a time.
type Controller struct {
	classifier service.Classifier
	clipboard  service.Clipboard
	input      *input.Manager
	history    *history.Store
	kpis       *kpi.Aggregator
	result     *render.ResultRenderer
	now        func() time.Time
	newID      func() string
	productive model.Category
	kpiTimeout time.Duration
	status     Status
	busy       atomic.Bool
	mu         sync.RWMutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides the history entry ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithClipboard overrides the system clipboard.
func WithClipboard(cb service.Clipboard) Option {
	return func(c *Controller) { c.clipboard = cb }
}

// WithKPITimeout overrides DefaultKPITimeout.
func WithKPITimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.kpiTimeout = d
		}
	}
}

// WithProductiveLabel overrides model.DefaultProductiveLabel.
func WithProductiveLabel(label string) Option {
	return func(c *Controller) {
		if label != "" {
			c.productive = model.Category(label)
		}
	}
}

// NewController creates a controller over backend and store.
func NewController(backend service.Backend, store *history.Store, opts ...Option) *Controller {
	c := &Controller{
		classifier: backend,
		clipboard:  SystemClipboard{},
		input:      input.NewManager(),
		history:    store,
		kpis:       kpi.NewAggregator(backend),
		now:        time.Now,
		newID:      uuid.NewString,
		productive: model.DefaultProductiveLabel,
		kpiTimeout: DefaultKPITimeout,
		status:     Status{Text: render.StatusWaiting},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.result = render.NewResultRenderer(c.productive)
	return c
}

// Boot renders the initial state. It makes no network calls; front ends
// follow it with RefreshKPIs.
func (c *Controller) Boot() {
	c.result.Clear()
	c.setStatus(render.StatusWaiting, StatusInfo)
}

// SetText replaces the pasted text.
func (c *Controller) SetText(text string) {
	c.input.SetText(text)
}

// SelectFile replaces the selected document. A nil document clears it.
func (c *Controller) SelectFile(doc *model.Document) error {
	if err := c.input.SelectFile(doc); err != nil {
		c.setStatus(common.UserMessage(err), StatusError)
		return err
	}
	if badge := c.input.Badge(); badge.Visible {
		c.setStatus("File selected: "+badge.Name, StatusInfo)
	}
	return nil
}

// RemoveFile drops the selected document.
func (c *Controller) RemoveFile() {
	c.input.ClearSelection()
	c.setStatus(MsgFileRemoved, StatusInfo)
}

// ClearSelection drops the selected document without touching the status.
func (c *Controller) ClearSelection() {
	c.input.ClearSelection()
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Submit classifies the current selection. The document wins over the text.
// On success the result is shown, recorded in the history and the document
// is cleared; the text is always kept.
func (c *Controller) Submit(ctx context.Context) (err error) {
	if !c.busy.CompareAndSwap(false, true) {
		return common.ErrSubmissionInFlight
	}
	defer c.busy.Store(false)

	req := api.Request{Document: c.input.Document(), Text: c.input.Text()}
	if req.Empty() {
		c.setStatus(MsgNothingToSubmit, StatusError)
		return common.NewUserError(MsgNothingToSubmit, common.ErrNothingToSubmit)
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Submission panicked", "panic", r)
			c.setStatus(MsgFailed, StatusError)
			err = fmt.Errorf("%w: %v", common.ErrClassificationFailed, r)
		}
	}()

	var filename string
	if req.HasDocument() {
		filename = req.Document.Name
		c.setStatus(fmt.Sprintf("Processing file: %s…", filename), StatusBusy)
	} else {
		c.setStatus(MsgProcessingText, StatusBusy)
	}

	result, err := c.classifier.Classify(ctx, req)
	if err != nil {
		return c.fail(err)
	}

	c.result.Show(result)

	entry := model.NewHistoryEntry(c.newID(), result, c.now(), filename)
	if err := c.history.Append(ctx, entry); err != nil {
		slog.Warn("Failed to record classification", "error", err)
	}

	if req.HasDocument() {
		c.input.ClearSelection()
		c.setStatus(MsgDoneFile, StatusSuccess)
	} else {
		c.setStatus(MsgDoneText, StatusSuccess)
	}

	c.RefreshKPIs(ctx)
	return nil
}

func (c *Controller) fail(err error) error {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		msg := "Error: " + statusErr.Error()
		c.setStatus(msg, StatusError)
		return common.NewUserError(msg, err)
	}

	slog.Warn("Classification failed", "error", err)
	c.setStatus(MsgFailed, StatusError)
	return common.NewUserError(MsgFailed, err)
}

// Reset deletes the history, the selection and the shown result.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.history.Reset(ctx); err != nil {
		c.setStatus(MsgFailed, StatusError)
		return err
	}
	c.input.ClearSelection()
	c.result.Clear()
	c.setStatus(MsgReset, StatusInfo)
	return nil
}

// Copy puts the shown suggested response on the clipboard.
func (c *Controller) Copy() error {
	view := c.result.View()
	if !view.Visible || view.SuggestedResponse == "" {
		c.setStatus(MsgNothingToCopy, StatusInfo)
		return common.NewUserError(MsgNothingToCopy, nil)
	}
	if err := c.clipboard.WriteAll(view.SuggestedResponse); err != nil {
		slog.Warn("Clipboard write failed", "error", err)
		c.setStatus("Error: clipboard unavailable", StatusError)
		return fmt.Errorf("failed to copy response: %w", err)
	}
	c.setStatus(MsgCopied, StatusSuccess)
	return nil
}

// ReportError shows a failure that happened outside the controller, such as
// a file that could not be opened.
func (c *Controller) ReportError(err error) {
	c.setStatus("Error: "+common.UserMessage(err), StatusError)
}

// RefreshKPIs re-reads the backend counters, giving up after the KPI
// timeout. A backend that does not answer leaves the last board in place.
func (c *Controller) RefreshKPIs(ctx context.Context) kpi.Board {
	ctx, cancel := context.WithTimeout(ctx, c.kpiTimeout)
	defer cancel()
	return c.kpis.Refresh(ctx)
}

// Status returns the current status line.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Controller) setStatus(text string, kind StatusKind) {
	c.mu.Lock()
	c.status = Status{Text: text, Kind: kind}
	c.mu.Unlock()
}

// ProductiveLabel returns the category counted as productive.
func (c *Controller) ProductiveLabel() model.Category {
	return c.productive
}
