package session

import "github.com/atotto/clipboard"

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll copies text.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
