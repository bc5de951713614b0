// Package observe provides logging and tracing for memorydoc.
//
// Logs always go to the writer passed in (stderr in production): stdout is
// the MCP transport and must carry nothing but protocol messages.
package observe

import (
	"context"
	"io"

	"github.com/felixgeelhaar/bolt/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("memorydoc")

// Observer handles logging and tracing.
type Observer struct {
	log        *bolt.Logger
	documentID string
}

// New creates an Observer with console output.
// If verbose is false, only warnings and errors are shown.
func New(out io.Writer, verbose bool) *Observer {
	return newObserver(bolt.New(bolt.NewConsoleHandler(out)), verbose)
}

// NewJSON creates an Observer with JSON output.
func NewJSON(out io.Writer, verbose bool) *Observer {
	return newObserver(bolt.New(bolt.NewJSONHandler(out)), verbose)
}

// Discard returns an Observer that drops everything. Used in tests.
func Discard() *Observer {
	return New(io.Discard, false)
}

func newObserver(l *bolt.Logger, verbose bool) *Observer {
	if !verbose {
		l.SetLevel(bolt.WARN)
	}
	return &Observer{log: l}
}

// ForDocument returns an Observer scoped to one memory document: every log
// line carries a "document" field and every span a document.id attribute.
func (o *Observer) ForDocument(id string) *Observer {
	return &Observer{
		log:        o.log.With().Str("document", id).Logger(),
		documentID: id,
	}
}

// DocumentID returns the document this Observer is scoped to, if any.
func (o *Observer) DocumentID() string {
	return o.documentID
}

// Log returns the underlying logger.
func (o *Observer) Log() *bolt.Logger {
	return o.log
}

// LogCtx returns the logger with the trace and span IDs of the span in ctx
// attached, so a failed append can be matched to its docs.append span.
func (o *Observer) LogCtx(ctx context.Context) *bolt.Logger {
	return o.log.Ctx(ctx)
}

// StartSpan starts a new OTel span. Without an installed SDK this is a no-op.
func (o *Observer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if o.documentID != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("document.id", o.documentID)))
	}
	return tracer.Start(ctx, name, opts...)
}
