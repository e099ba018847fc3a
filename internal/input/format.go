package input

import (
	"fmt"
	"math"
	"strings"
)

// DefaultNameWidth is the widest file name shown on the badge.
const DefaultNameWidth = 42

// HumanSize formats a byte count the way the file badge shows it.
// Examples: 1023 -> "1023 B", 1024 -> "1 KB", 1048576 -> "1.0 MB"
func HumanSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	kb := float64(bytes) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%d KB", int64(math.Round(kb)))
	}
	return fmt.Sprintf("%.1f MB", kb/1024)
}

// ShortenName truncates name to at most max runes, keeping the extension
// and marking the cut with an ellipsis.
func ShortenName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}

	ext := []rune{}
	if dot := strings.LastIndex(name, "."); dot > -1 {
		ext = []rune(name[dot:])
	}
	if len(ext) > max-4 {
		// Not a real extension; cut it like the rest of the name.
		ext = []rune{}
	}

	keep := max - len(ext) - 3
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + "…" + string(ext)
}
