// Package memory defines the memory entry: one timestamped piece of text
// appended to the backing document.
package memory

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// TimestampLayout is the layout used for the bracketed entry prefix.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrEmptyContent is returned when the content is blank after trimming.
var ErrEmptyContent = errors.New("content cannot be empty")

// Clock returns the current time. Injected so tests get stable timestamps.
type Clock func() time.Time

// Entry is a single memory. It is created once and never mutated.
type Entry struct {
	ID        string
	Timestamp time.Time
	Content   string
}

// NewEntry stamps content with the clock's current time. Content is trimmed
// and normalized to NFC so the same text always renders the same way in
// the document.
func NewEntry(now Clock, content string) (Entry, error) {
	content = norm.NFC.String(strings.TrimSpace(content))
	if content == "" {
		return Entry{}, ErrEmptyContent
	}
	if now == nil {
		now = time.Now
	}
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: now(),
		Content:   content,
	}, nil
}

// Stamp returns the formatted timestamp.
func (e Entry) Stamp() string {
	return e.Timestamp.Format(TimestampLayout)
}

// Text renders the entry as "[<timestamp>] <content>".
func (e Entry) Text() string {
	return fmt.Sprintf("[%s] %s", e.Stamp(), e.Content)
}

// Length is the content length in runes.
func (e Entry) Length() int {
	return utf8.RuneCountInString(e.Content)
}
