package document

import (
	"context"
	"fmt"
	"os"

	"github.com/HendryAvila/memorydoc/internal/observe"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/oauth2/google"
	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// GoogleDocs appends to and reads one Google Docs document.
type GoogleDocs struct {
	svc   *docs.Service
	docID string
	obs   *observe.Observer
}

// NewGoogleDocs authenticates with a service-account key file. The key is
// parsed here, so a malformed file fails at startup; the access token
// itself is fetched lazily on the first API call.
func NewGoogleDocs(ctx context.Context, credentialsPath, docID string, obs *observe.Observer) (*GoogleDocs, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(data, docs.DocumentsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	svc, err := docs.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating docs service: %w", err)
	}
	return NewGoogleDocsWithService(svc, docID, obs), nil
}

// NewGoogleDocsWithService wraps an existing docs.Service.
func NewGoogleDocsWithService(svc *docs.Service, docID string, obs *observe.Observer) *GoogleDocs {
	if obs == nil {
		obs = observe.Discard()
	}
	if obs.DocumentID() != docID {
		obs = obs.ForDocument(docID)
	}
	return &GoogleDocs{svc: svc, docID: docID, obs: obs}
}

// DocumentID returns the target document.
func (g *GoogleDocs) DocumentID() string {
	return g.docID
}

// AppendText inserts text as a new paragraph at the end of the body.
func (g *GoogleDocs) AppendText(ctx context.Context, text string) error {
	ctx, span := g.obs.StartSpan(ctx, "docs.append")
	defer span.End()

	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{
			{
				InsertText: &docs.InsertTextRequest{
					// Empty segment ID targets the document body.
					EndOfSegmentLocation: &docs.EndOfSegmentLocation{},
					Text:                 "\n" + text,
				},
			},
		},
	}

	if _, err := g.svc.Documents.BatchUpdate(g.docID, req).Context(ctx).Do(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("appending to document %s: %w", g.docID, err)
	}
	return nil
}

// ReadText fetches the document and returns its extracted text.
func (g *GoogleDocs) ReadText(ctx context.Context) (string, error) {
	ctx, span := g.obs.StartSpan(ctx, "docs.read")
	defer span.End()

	doc, err := g.svc.Documents.Get(g.docID).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("reading document %s: %w", g.docID, err)
	}
	return ExtractText(doc), nil
}
