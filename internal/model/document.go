package model

import (
	"bytes"
	"io"
)

// Document is a user-selected file awaiting classification.
type Document struct {
	open     func() (io.ReadCloser, error)
	Name     string
	MIMEType string
	Size     int64
}

// NewDocument creates a document whose content is produced by open.
func NewDocument(name, mimeType string, size int64, open func() (io.ReadCloser, error)) *Document {
	return &Document{
		Name:     name,
		MIMEType: mimeType,
		Size:     size,
		open:     open,
	}
}

// NewDocumentFromBytes creates an in-memory document.
func NewDocumentFromBytes(name, mimeType string, data []byte) *Document {
	return NewDocument(name, mimeType, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// Open returns a fresh reader over the document content.
func (d *Document) Open() (io.ReadCloser, error) {
	if d.open == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return d.open()
}

// Empty reports whether there is nothing to upload.
func (d *Document) Empty() bool {
	return d == nil || d.Size <= 0
}
