// Package input owns the current text and file selection.
package input

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/model"
	"github.com/spf13/afero"
)

var acceptedExt = regexp.MustCompile(`(?i)\.(txt|pdf)$`)

var acceptedTypes = map[string]bool{
	"text/plain":      true,
	"application/pdf": true,
}

// Badge is the removable marker shown for a selected file.
type Badge struct {
	Name    string
	Meta    string
	Visible bool
}

// Manager holds the selection: pasted text plus at most one document.
type Manager struct {
	doc   *model.Document
	text  string
	badge Badge
	mu    sync.RWMutex
}

// NewManager creates an empty selection.
func NewManager() *Manager {
	return &Manager{}
}

// Accepts reports whether doc has an allowed extension or MIME type.
func Accepts(doc *model.Document) bool {
	if doc == nil {
		return false
	}
	mimeType, _, _ := mime.ParseMediaType(doc.MIMEType)
	return acceptedExt.MatchString(doc.Name) || acceptedTypes[strings.ToLower(mimeType)]
}

// SelectFile replaces the current document. A nil or empty document clears
// the selection. Unsupported documents clear the selection and return
// common.ErrUnsupportedFormat.
func (m *Manager) SelectFile(doc *model.Document) error {
	if doc.Empty() {
		m.ClearSelection()
		return nil
	}

	if !Accepts(doc) {
		m.ClearSelection()
		slog.Debug("Rejected file selection", "name", doc.Name, "mime", doc.MIMEType)
		return common.NewUserError("Unsupported format: use .txt or .pdf.",
			fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, doc.Name))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.doc = doc
	m.badge = Badge{
		Visible: true,
		Name:    ShortenName(doc.Name, DefaultNameWidth),
		Meta:    "• " + HumanSize(doc.Size),
	}
	return nil
}

// ClearSelection drops the document and hides the badge. Text is untouched.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.doc = nil
	m.badge = Badge{}
}

// SetText replaces the pasted text.
func (m *Manager) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

// Text returns the pasted text, trimmed.
func (m *Manager) Text() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return strings.TrimSpace(m.text)
}

// Document returns the selected document, or nil.
func (m *Manager) Document() *model.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc
}

// Badge returns the current badge state.
func (m *Manager) Badge() Badge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.badge
}

// HasInput reports whether there is anything to submit.
func (m *Manager) HasInput() bool {
	return !m.Document().Empty() || m.Text() != ""
}

// OpenDocument describes the file at path on fs. Its content is read lazily.
func OpenDocument(fs afero.Fs, path string) (*model.Document, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", common.ErrUnsupportedFormat, path)
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))

	return model.NewDocument(name, mimeType, info.Size(), func() (io.ReadCloser, error) {
		return fs.Open(path)
	}), nil
}
