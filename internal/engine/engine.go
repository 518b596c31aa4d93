// Package engine wires the line index, resolvers, validator and overlap
// resolver into a single facade usable from any host: an HTTP handler, a
// batch job, or the bundled CLI.
//
// The engine is pure between calls: documents and line indexes are immutable
// and shared read-only, so any number of resolutions for different documents
// run in parallel with no coordination. Within one document the only join
// point is overlap resolution, which waits for every producer's batch.
package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"highlight-resolver/internal/config"
	"highlight-resolver/internal/highlight"
	"highlight-resolver/internal/lineindex"
	"highlight-resolver/internal/locate"
	"highlight-resolver/internal/metrics"
	"highlight-resolver/internal/overlap"
	"highlight-resolver/internal/snippet"
	"highlight-resolver/internal/validate"
)

// Document is one immutable document version. Text must already be
// normalized (see textutil.NormalizeUTF8LF); Version keys the line-index
// cache and changes whenever Text does.
type Document struct {
	Version string
	Text    string
}

// Producer is anything that proposes highlight requests for a document: the
// generator adapter or an analysis plugin. It is a capability, not a base
// type; any value with these methods can feed the engine.
type Producer interface {
	Name() string
	Priority() int
	Requests() []highlight.Request
}

// Weighter is the optional capability of producers that attach an
// importance weight to their highlights.
type Weighter interface {
	Weight() int
}

// Batch is a ready-made Producer for hosts that already hold requests.
type Batch struct {
	Source     string
	Rank       int
	Importance int
	Items      []highlight.Request
}

func (b Batch) Name() string                  { return b.Source }
func (b Batch) Priority() int                 { return b.Rank }
func (b Batch) Weight() int                   { return b.Importance }
func (b Batch) Requests() []highlight.Request { return b.Items }

// Engine resolves highlight requests against documents.
type Engine struct {
	cfg     config.Engine
	limits  validate.Limits
	cache   *lineindex.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New builds an engine from a validated configuration. m may be nil when the
// host does not scrape metrics.
func New(cfg config.Engine, m *metrics.Metrics) *Engine {
	return &Engine{
		cfg:     cfg,
		limits:  validate.Limits{MaxSpanLength: cfg.MaxSpanLength},
		cache:   lineindex.NewCache(),
		logger:  slog.Default().With("component", "highlight-engine"),
		metrics: m,
	}
}

func (e *Engine) index(doc Document) *lineindex.Index {
	return e.cache.Get(doc.Version, doc.Text, lineindex.Base(*e.cfg.LineBase))
}

func (e *Engine) locateOptions(ix *lineindex.Index) locate.Options {
	return locate.Options{
		MinPartialSearchLength: e.cfg.MinPartialSearchLength,
		MinPartialMatchLength:  e.cfg.MinPartialMatchLength,
		EnableFuzzy:            e.cfg.EnableFuzzy,
		FuzzyMinSimilarity:     e.cfg.FuzzyMinSimilarity,
		ContextRadius:          e.cfg.ContextRadius,
		Expand:                 locate.Granularity(e.cfg.Expand),
		MaxSpanLength:          e.cfg.MaxSpanLength,
		LineIndex:              ix,
	}
}

// Render returns the numbered-line view of the document, the reference
// producers cite line numbers from.
func (e *Engine) Render(doc Document) string {
	return e.index(doc).Render()
}

// Invalidate drops cached line indexes for a superseded document version.
func (e *Engine) Invalidate(version string) {
	e.cache.Invalidate(version)
}

// Resolve resolves a single request to a validated span. Location failures
// come back as data with Valid=false; a validator rejection of a span a
// resolver accepted is an engine bug and is logged as such.
func (e *Engine) Resolve(doc Document, req highlight.Request) highlight.ResolvedSpan {
	ix := e.index(doc)

	var span highlight.ResolvedSpan
	switch {
	case req.LineSnippet != nil:
		span = snippet.Resolve(ix, doc.Text, *req.LineSnippet)
	case req.FreeText != nil:
		if found := locate.Find(doc.Text, *req.FreeText, e.locateOptions(ix)); found != nil {
			span = *found
		} else {
			span = highlight.Reject("", "%s: search text %q did not match any strategy",
				highlight.ReasonNotFound, req.FreeText.SearchText)
		}
	default:
		span = highlight.Reject("", "%s: request has no populated variant", highlight.ReasonNotFound)
	}

	located := span.Valid
	span = validate.Span(doc.Text, span, e.limits)

	switch {
	case located && !span.Valid && !strings.HasPrefix(span.Reason, highlight.ReasonSpanTooLong):
		// A resolver believed this span was correct; the validator disagrees.
		// That is an engine bug, not a producer mistake. An over-long span is
		// the exception: length is policy, so the producer just quoted too
		// much, and the rejection is ordinary data.
		e.logger.Error("invariant violation",
			"shape", req.Shape(), "strategy", span.Strategy, "reason", span.Reason)
		if e.metrics != nil {
			e.metrics.InvariantViolationsTotal.Inc()
		}
	case !span.Valid:
		e.logger.Debug("location failure",
			"shape", req.Shape(), "reason", span.Reason)
	}
	if e.metrics != nil {
		outcome := "resolved"
		if !span.Valid {
			outcome = "rejected"
		}
		e.metrics.ResolutionsTotal.WithLabelValues(req.Shape(), span.Strategy, outcome).Inc()
	}
	return span
}

// ResolveBatch resolves every producer's requests concurrently against the
// same immutable document, then joins at the overlap resolver and returns
// the reconciled, document-ordered set. Rejected requests simply do not
// appear; the only possible error is context cancellation.
func (e *Engine) ResolveBatch(ctx context.Context, doc Document, producers []Producer) ([]highlight.Highlight, error) {
	// Build the index up front so the workers share it read-only.
	_ = e.index(doc)

	results := make([][]highlight.Highlight, len(producers))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range producers {
		i, p := i, p
		g.Go(func() error {
			weight := 0
			if w, ok := p.(Weighter); ok {
				weight = w.Weight()
			}
			var hs []highlight.Highlight
			for _, req := range p.Requests() {
				if err := ctx.Err(); err != nil {
					return err
				}
				span := e.Resolve(doc, req)
				if !span.Valid {
					continue
				}
				hs = append(hs, highlight.Highlight{
					ID:       uuid.NewString(),
					Span:     span,
					Producer: p.Name(),
					Priority: p.Priority(),
					Weight:   weight,
				})
			}
			results[i] = hs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []highlight.Highlight
	for _, hs := range results {
		all = append(all, hs...)
	}
	kept := overlap.Reconcile(all)
	if dropped := len(all) - len(kept); dropped > 0 && e.metrics != nil {
		e.metrics.ReconcileDroppedTotal.Add(float64(dropped))
	}
	e.logger.Debug("batch reconciled",
		"document", doc.Version, "producers", len(producers),
		"proposed", len(all), "kept", len(kept))
	return kept, nil
}
