package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/triage/internal/api"
	"github.com/Veraticus/triage/internal/history"
	"github.com/Veraticus/triage/internal/kpi"
	"github.com/Veraticus/triage/internal/model"
	"github.com/Veraticus/triage/internal/render"
	"github.com/Veraticus/triage/internal/session"
	"github.com/Veraticus/triage/internal/storage"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	requests  []api.Request
	statsHang bool
	mu        sync.Mutex
}

func (s *stubBackend) Classify(_ context.Context, req api.Request) (model.ClassificationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return model.ClassificationResult{
		Category:          "Produtivo",
		Confidence:        0.87,
		SuggestedResponse: "Refund approved.",
		OriginalText:      req.Text,
	}, nil
}

func (s *stubBackend) Stats(ctx context.Context) (model.APIKPIs, error) {
	if s.statsHang {
		<-ctx.Done()
		return model.APIKPIs{}, ctx.Err()
	}
	return model.APIKPIs{}, &api.StatusError{Status: 404}
}

func (s *stubBackend) Health(context.Context) error { return nil }

type memClipboard struct{ text string }

func (c *memClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestModel(t *testing.T) (Model, *stubBackend, *memClipboard) {
	t.Helper()
	return newTestModelWith(t, &stubBackend{})
}

func newTestModelWith(t *testing.T, backend *stubBackend) (Model, *stubBackend, *memClipboard) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/mail/refund.txt", []byte("Please process my refund"), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/mail/photo.png", []byte{0x89, 'P', 'N', 'G'}, 0o600))

	cb := &memClipboard{}
	ctrl := session.NewController(backend, history.New(storage.NewMemoryKV()),
		session.WithClipboard(cb),
		session.WithKPITimeout(20*time.Millisecond),
	)

	m, err := New(context.Background(), ctrl, WithFs(fs), WithSize(100, 40))
	require.NoError(t, err)
	m = drain(t, m, m.boot())
	require.True(t, m.ready)
	return m, backend, cb
}

// drain runs cmd and feeds the resulting messages back into the model.
// Spinner ticks are dropped so animations do not loop.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nextCmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nextCmd)
		}
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

// typeText sends runes to the focused input, ignoring cursor blink commands.
func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

var (
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyReset = tea.KeyMsg{Type: tea.KeyCtrlR}
	keyCopy  = tea.KeyMsg{Type: tea.KeyCtrlY}
)

func TestModel_SubmitText(t *testing.T) {
	m, backend, _ := newTestModel(t)

	m = typeText(m, "Please process my refund")
	m = press(t, m, keyCtrlS)

	require.Len(t, backend.requests, 1)
	assert.Equal(t, "Please process my refund", backend.requests[0].Text)

	snap := m.Snapshot()
	assert.False(t, m.Submitting())
	assert.Equal(t, session.MsgDoneText, snap.Status.Text)
	assert.Equal(t, "87.0%", snap.Result.Confidence)
	assert.Equal(t, render.BadgeOK, snap.Result.BadgeClass)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "OK", snap.KPIs.AverageConfidence)

	view := m.View()
	assert.Contains(t, view, "87.0%")
	assert.Contains(t, view, "Refund approved.")
}

func TestModel_SubmitShortcut(t *testing.T) {
	m, backend, _ := newTestModel(t)

	m = typeText(m, "hello")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	assert.Len(t, backend.requests, 1)
	assert.Equal(t, session.MsgDoneText, m.Snapshot().Status.Text)
}

func TestModel_SubmitWhileSubmittingIsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.submitting = true

	_, cmd := m.Update(keyCtrlS)
	assert.Nil(t, cmd)
}

func TestModel_SelectAndSubmitFile(t *testing.T) {
	m, backend, _ := newTestModel(t)

	m = press(t, m, keyTab)
	assert.Equal(t, FocusFile, m.Focused())

	m = typeText(m, "/mail/refund.txt")
	m = press(t, m, keyEnter)

	snap := m.Snapshot()
	require.True(t, snap.Badge.Visible)
	assert.Equal(t, "refund.txt", snap.Badge.Name)
	assert.Contains(t, m.View(), "refund.txt")

	m = press(t, m, keyCtrlS)
	require.Len(t, backend.requests, 1)
	assert.True(t, backend.requests[0].HasDocument())
	assert.Equal(t, session.MsgDoneFile, m.Snapshot().Status.Text)
	assert.False(t, m.Snapshot().Badge.Visible)
	assert.Empty(t, m.file.Value())
}

func TestModel_SelectFileErrors(t *testing.T) {
	tests := []struct {
		path       string
		wantStatus string
	}{
		{path: "/mail/photo.png", wantStatus: "Unsupported format: use .txt or .pdf."},
		{path: "/mail/missing.txt", wantStatus: "Error: cannot open /mail/missing.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, _, _ := newTestModel(t)
			m = press(t, m, keyTab)
			m = typeText(m, tt.path)
			m = press(t, m, keyEnter)

			snap := m.Snapshot()
			assert.False(t, snap.Badge.Visible)
			assert.Equal(t, tt.wantStatus, snap.Status.Text)
			assert.Equal(t, session.StatusError, snap.Status.Kind)
		})
	}
}

func TestModel_EscapeClearsFile(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, keyTab)
	m = typeText(m, "/mail/refund.txt")
	m = press(t, m, keyEnter)
	require.True(t, m.Snapshot().Badge.Visible)

	m = press(t, m, keyEsc)
	assert.False(t, m.Snapshot().Badge.Visible)
	assert.Empty(t, m.file.Value())
}

func TestModel_ResetNeedsConfirmation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(m, "hello")
	m = press(t, m, keyCtrlS)
	require.Len(t, m.Snapshot().History, 1)

	m = press(t, m, keyReset)
	assert.Contains(t, m.View(), "[y/N]")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Len(t, m.Snapshot().History, 1)

	m = press(t, m, keyReset)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Empty(t, m.Snapshot().History)
	assert.Equal(t, session.MsgReset, m.Snapshot().Status.Text)
	assert.Equal(t, "hello", m.text.Value(), "the confirmation key is not typed")
}

func TestModel_Copy(t *testing.T) {
	m, _, cb := newTestModel(t)
	m = typeText(m, "hello")
	m = press(t, m, keyCtrlS)

	m = press(t, m, keyCopy)
	assert.Equal(t, "Refund approved.", cb.text)
	assert.Equal(t, session.MsgCopied, m.Snapshot().Status.Text)
}

func TestModel_Resize(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(Model)
	assert.Equal(t, 60, m.width)
	assert.NotEmpty(t, m.View())
}

func TestModel_QuitRendersNothing(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Empty(t, next.(Model).View())
}

func TestModel_HangingStatsDoesNotBlock(t *testing.T) {
	m, err := New(context.Background(),
		session.NewController(&stubBackend{statsHang: true}, history.New(storage.NewMemoryKV()),
			session.WithKPITimeout(time.Hour)),
		WithSize(100, 40))
	require.NoError(t, err)

	booted := make(chan tea.Msg, 1)
	go func() { booted <- m.boot()() }()

	select {
	case msg := <-booted:
		next, _ := m.Update(msg)
		m = next.(Model)
	case <-time.After(2 * time.Second):
		t.Fatal("first screen waits on /stats")
	}
	assert.True(t, m.ready)
	assert.NotContains(t, m.View(), "Contacting the classifier")
}

func TestModel_SubmitFinishesWhileStatsHangs(t *testing.T) {
	m, backend, _ := newTestModelWith(t, &stubBackend{statsHang: true})

	m = typeText(m, "Please process my refund")
	m = press(t, m, keyCtrlS)

	require.Len(t, backend.requests, 1)
	assert.False(t, m.Submitting())
	assert.Equal(t, session.MsgDoneText, m.Snapshot().Status.Text)
	assert.True(t, m.Snapshot().Result.Visible)
	assert.Equal(t, kpi.AverageUnknown, m.Snapshot().KPIs.AverageConfidence)
}

func TestModel_KPIRefreshOnlyTouchesKPIs(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(m, "hello")
	m = press(t, m, keyCtrlS)
	status := m.Snapshot().Status

	next, _ := m.Update(kpisRefreshedMsg{kpis: kpi.Summary{Total: 41, AverageConfidence: "90.0%", Remote: true}})
	m = next.(Model)

	assert.Equal(t, 41, m.Snapshot().KPIs.Total)
	assert.Equal(t, status, m.Snapshot().Status)
	require.Len(t, m.Snapshot().History, 1)
}

func TestModel_ResetIgnoredWhileSubmitting(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(m, "hello")
	m = press(t, m, keyCtrlS)
	require.Len(t, m.Snapshot().History, 1)

	m.submitting = true
	m = press(t, m, keyReset)
	assert.False(t, m.confirmReset)
	assert.NotContains(t, m.View(), "[y/N]")

	m.confirmReset = true
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Len(t, m.Snapshot().History, 1)
	assert.NotEqual(t, session.MsgReset, m.Snapshot().Status.Text)
}
