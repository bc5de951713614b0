package memory

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestNewEntry_Text(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	e, err := NewEntry(fixedClock(at), "met with Alice about Q3 plan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "[2026-03-14 09:26:53] met with Alice about Q3 plan"
	if got := e.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if e.ID == "" {
		t.Error("ID should be set")
	}
}

func TestNewEntry_TimestampFormatStable(t *testing.T) {
	pattern := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] note$`)

	for i := 0; i < 3; i++ {
		e, err := NewEntry(time.Now, "note")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !pattern.MatchString(e.Text()) {
			t.Errorf("Text() = %q does not match %s", e.Text(), pattern)
		}
	}
}

func TestNewEntry_TrimsContent(t *testing.T) {
	e, err := NewEntry(nil, "  \n hello world \t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Content != "hello world" {
		t.Errorf("Content = %q, want %q", e.Content, "hello world")
	}
}

func TestNewEntry_NormalizesToNFC(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	e, err := NewEntry(nil, "cafe\u0301")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Content != "caf\u00e9" {
		t.Errorf("Content = %q, want NFC form", e.Content)
	}
	if e.Length() != 4 {
		t.Errorf("Length() = %d, want 4", e.Length())
	}
}

func TestNewEntry_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := NewEntry(nil, in)
		if !errors.Is(err, ErrEmptyContent) {
			t.Errorf("NewEntry(%q) err = %v, want ErrEmptyContent", in, err)
		}
	}
}

func TestNewEntry_UniqueIDs(t *testing.T) {
	a, _ := NewEntry(nil, "x")
	b, _ := NewEntry(nil, "x")
	if a.ID == b.ID {
		t.Errorf("expected distinct IDs, both were %s", a.ID)
	}
}
