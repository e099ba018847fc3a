package session_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/triage/internal/api"
	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/history"
	"github.com/Veraticus/triage/internal/model"
	"github.com/Veraticus/triage/internal/render"
	"github.com/Veraticus/triage/internal/session"
	"github.com/Veraticus/triage/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	classify   func(ctx context.Context, req api.Request) (model.ClassificationResult, error)
	requests   []api.Request
	stats      model.APIKPIs
	statsCalls int
	statsHang  bool
	mu         sync.Mutex
}

func (f *fakeBackend) Classify(ctx context.Context, req api.Request) (model.ClassificationResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.classify(ctx, req)
}

func (f *fakeBackend) Stats(ctx context.Context) (model.APIKPIs, error) {
	f.mu.Lock()
	f.statsCalls++
	hang := f.statsHang
	f.mu.Unlock()
	if hang {
		<-ctx.Done()
		return model.APIKPIs{}, ctx.Err()
	}
	return f.stats, nil
}

func (f *fakeBackend) Health(context.Context) error { return nil }

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeClipboard struct {
	err  error
	text string
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

var refund = model.ClassificationResult{
	Category:          "Produtivo",
	Confidence:        0.87,
	SuggestedResponse: "We will process it today.",
	OriginalText:      "Please process my refund",
}

func succeed(result model.ClassificationResult) func(context.Context, api.Request) (model.ClassificationResult, error) {
	return func(context.Context, api.Request) (model.ClassificationResult, error) {
		return result, nil
	}
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newController(t *testing.T, backend *fakeBackend, opts ...session.Option) (*session.Controller, *history.Store) {
	t.Helper()
	store := history.New(storage.NewMemoryKV())
	ids := 0
	base := []session.Option{
		session.WithClock(func() time.Time { return fixedNow }),
		session.WithIDGenerator(func() string {
			ids++
			return "id-" + string(rune('0'+ids))
		}),
		session.WithClipboard(&fakeClipboard{}),
	}
	return session.NewController(backend, store, append(base, opts...)...), store
}

func TestController_SubmitText(t *testing.T) {
	backend := &fakeBackend{classify: succeed(refund), stats: model.APIKPIs{TotalClassifications: 9, AverageConfidence: 0.5}}
	c, store := newController(t, backend)
	ctx := context.Background()

	c.SetText("  Please process my refund  ")
	require.NoError(t, c.Submit(ctx))

	require.Len(t, backend.requests, 1)
	assert.Equal(t, "Please process my refund", backend.requests[0].Text)
	assert.Nil(t, backend.requests[0].Document)

	view := c.Snapshot(ctx)
	assert.Equal(t, session.Status{Text: session.MsgDoneText, Kind: session.StatusSuccess}, view.Status)
	assert.True(t, view.Result.Visible)
	assert.Equal(t, "87.0%", view.Result.Confidence)
	assert.Equal(t, render.BadgeOK, view.Result.BadgeClass)
	assert.False(t, view.Busy)

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "id-1", entries[0].ID)
	assert.Equal(t, fixedNow, entries[0].Timestamp)
	assert.Empty(t, entries[0].Filename)
	assert.Equal(t, refund, entries[0].ClassificationResult)

	require.Len(t, view.History, 1)
	assert.Equal(t, 1, backend.statsCalls)
	assert.Equal(t, 9, view.KPIs.Total)
	assert.Equal(t, "50.0%", view.KPIs.AverageConfidence)
	assert.Equal(t, 100, view.KPIs.ProductivePercent)
}

func TestController_SubmitFileClearsSelectionKeepsText(t *testing.T) {
	backend := &fakeBackend{classify: succeed(model.ClassificationResult{Category: "Improdutivo", Confidence: 0.6})}
	c, store := newController(t, backend)
	ctx := context.Background()

	c.SetText("draft")
	require.NoError(t, c.SelectFile(model.NewDocumentFromBytes("mail.txt", "text/plain", []byte("hi"))))
	assert.Equal(t, "File selected: mail.txt", c.Status().Text)

	require.NoError(t, c.Submit(ctx))

	require.Len(t, backend.requests, 1)
	assert.True(t, backend.requests[0].HasDocument(), "document wins over text")

	view := c.Snapshot(ctx)
	assert.Equal(t, session.MsgDoneFile, view.Status.Text)
	assert.False(t, view.Badge.Visible)
	assert.Equal(t, render.BadgeNeutral, view.Result.BadgeClass)

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mail.txt", entries[0].Filename)

	// Text survives; a second submit sends it.
	require.NoError(t, c.Submit(ctx))
	require.Len(t, backend.requests, 2)
	assert.Equal(t, "draft", backend.requests[1].Text)
}

func TestController_SubmitNothing(t *testing.T) {
	backend := &fakeBackend{classify: succeed(refund)}
	c, _ := newController(t, backend)

	c.SetText("   ")
	err := c.Submit(context.Background())

	assert.ErrorIs(t, err, common.ErrNothingToSubmit)
	assert.Equal(t, session.MsgNothingToSubmit, c.Status().Text)
	assert.Zero(t, backend.calls())
}

func TestController_SubmitFailures(t *testing.T) {
	tests := []struct {
		err        error
		name       string
		wantStatus string
	}{
		{
			name:       "server rejection shows detail",
			err:        &api.StatusError{Status: http.StatusBadRequest, Detail: "Texto vazio."},
			wantStatus: "Error: Texto vazio.",
		},
		{
			name:       "status without detail",
			err:        &api.StatusError{Status: http.StatusInternalServerError},
			wantStatus: "Error: HTTP 500",
		},
		{
			name:       "transport failure is generic",
			err:        common.ErrTransport,
			wantStatus: session.MsgFailed,
		},
		{
			name:       "malformed response is generic",
			err:        common.ErrMalformedResponse,
			wantStatus: session.MsgFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{classify: func(context.Context, api.Request) (model.ClassificationResult, error) {
				return model.ClassificationResult{}, tt.err
			}}
			c, store := newController(t, backend)
			ctx := context.Background()

			c.SetText("keep me")
			require.NoError(t, c.SelectFile(model.NewDocumentFromBytes("a.pdf", "application/pdf", []byte("%PDF"))))

			err := c.Submit(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantStatus, c.Status().Text)
			assert.Equal(t, tt.wantStatus, common.UserMessage(err))

			view := c.Snapshot(ctx)
			assert.True(t, view.Badge.Visible, "selection preserved")
			assert.False(t, view.Result.Visible)
			assert.False(t, view.Busy)

			entries, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, entries)
			assert.Zero(t, backend.statsCalls)
		})
	}
}

func TestController_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	backend := &fakeBackend{classify: func(context.Context, api.Request) (model.ClassificationResult, error) {
		close(started)
		<-release
		return refund, nil
	}}
	c, _ := newController(t, backend)
	ctx := context.Background()
	c.SetText("hello")

	done := make(chan error, 1)
	go func() { done <- c.Submit(ctx) }()

	<-started
	assert.True(t, c.Busy())
	assert.ErrorIs(t, c.Submit(ctx), common.ErrSubmissionInFlight)
	assert.Equal(t, 1, backend.calls())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Busy())
}

func TestController_SubmitPanicClearsLoading(t *testing.T) {
	backend := &fakeBackend{classify: func(context.Context, api.Request) (model.ClassificationResult, error) {
		panic("boom")
	}}
	c, _ := newController(t, backend)
	c.SetText("hello")

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrClassificationFailed)
	assert.Equal(t, session.MsgFailed, c.Status().Text)
	assert.False(t, c.Busy())
}

func TestController_Reset(t *testing.T) {
	backend := &fakeBackend{classify: succeed(refund)}
	c, store := newController(t, backend)
	ctx := context.Background()

	c.SetText("hello")
	require.NoError(t, c.Submit(ctx))
	require.NoError(t, c.SelectFile(model.NewDocumentFromBytes("b.txt", "", []byte("x"))))

	require.NoError(t, c.Reset(ctx))

	view := c.Snapshot(ctx)
	assert.Equal(t, session.MsgReset, view.Status.Text)
	assert.False(t, view.Badge.Visible)
	assert.False(t, view.Result.Visible)
	assert.Empty(t, view.History)
	assert.Zero(t, view.KPIs.ProductivePercent)

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestController_SelectFileRejected(t *testing.T) {
	c, _ := newController(t, &fakeBackend{classify: succeed(refund)})

	err := c.SelectFile(model.NewDocumentFromBytes("photo.png", "image/png", []byte{1}))
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	assert.Equal(t, session.Status{Text: "Unsupported format: use .txt or .pdf.", Kind: session.StatusError}, c.Status())
	assert.False(t, c.Snapshot(context.Background()).Badge.Visible)
}

func TestController_RemoveFile(t *testing.T) {
	c, _ := newController(t, &fakeBackend{classify: succeed(refund)})
	require.NoError(t, c.SelectFile(model.NewDocumentFromBytes("b.pdf", "", []byte("x"))))

	c.RemoveFile()
	assert.Equal(t, session.MsgFileRemoved, c.Status().Text)
	assert.False(t, c.Snapshot(context.Background()).Badge.Visible)
}

func TestController_Copy(t *testing.T) {
	cb := &fakeClipboard{}
	c, _ := newController(t, &fakeBackend{classify: succeed(refund)}, session.WithClipboard(cb))
	ctx := context.Background()

	assert.Error(t, c.Copy())
	assert.Equal(t, session.MsgNothingToCopy, c.Status().Text)

	c.SetText("hello")
	require.NoError(t, c.Submit(ctx))
	require.NoError(t, c.Copy())
	assert.Equal(t, refund.SuggestedResponse, cb.text)
	assert.Equal(t, session.MsgCopied, c.Status().Text)

	cb.err = errors.New("no display")
	assert.Error(t, c.Copy())
	assert.Equal(t, session.StatusError, c.Status().Kind)
}

func TestController_ProductiveLabel(t *testing.T) {
	backend := &fakeBackend{classify: succeed(model.ClassificationResult{Category: "Productive", Confidence: 1})}
	c, _ := newController(t, backend, session.WithProductiveLabel("Productive"))
	ctx := context.Background()

	c.SetText("hello")
	require.NoError(t, c.Submit(ctx))

	view := c.Snapshot(ctx)
	assert.Equal(t, render.BadgeOK, view.Result.BadgeClass)
	assert.Equal(t, 1, view.KPIs.Productive)
}

func TestController_Boot(t *testing.T) {
	backend := &fakeBackend{classify: succeed(refund), stats: model.APIKPIs{TotalClassifications: 2}}
	c, _ := newController(t, backend)

	c.Boot()
	view := c.Snapshot(context.Background())
	assert.Equal(t, render.StatusWaiting, view.Status.Text)
	assert.Zero(t, backend.statsCalls)
	assert.False(t, view.KPIs.Remote)

	c.RefreshKPIs(context.Background())
	view = c.Snapshot(context.Background())
	assert.Equal(t, 1, backend.statsCalls)
	assert.True(t, view.KPIs.Remote)
	assert.Equal(t, 2, view.KPIs.Total)
}

func TestController_UnresponsiveStatsDoesNotBlock(t *testing.T) {
	backend := &fakeBackend{classify: succeed(refund), statsHang: true}
	c, store := newController(t, backend, session.WithKPITimeout(20*time.Millisecond))
	c.SetText("Please process my refund")

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("submission still running while /stats hangs")
	}

	assert.False(t, c.Busy())
	assert.Equal(t, session.MsgDoneText, c.Status().Text)
	assert.Equal(t, 1, backend.statsCalls)

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	view := c.Snapshot(context.Background())
	assert.True(t, view.Result.Visible)
	assert.False(t, view.KPIs.Remote)
}

func TestController_ReportError(t *testing.T) {
	c, _ := newController(t, &fakeBackend{classify: succeed(refund)})
	c.ReportError(common.NewUserError("file not found", errors.New("stat: no such file")))
	assert.Equal(t, session.Status{Text: "Error: file not found", Kind: session.StatusError}, c.Status())
}
