// Package research turns a natural-language query into a short spoken-ready
// summary: search, navigate, extract, truncate, summarize. Every stage can
// fail independently; a failure becomes one of a closed set of tagged results
// and never an error or fault at the caller. The browser session opened
// during navigation is released on every exit path, including a panic in a
// later stage.
package research

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"voxpilot/internal/capability"
)

// Kind tags a pipeline outcome. Exactly one Kind applies per run.
type Kind int

const (
	KindSummary Kind = iota
	KindNoResults
	KindPageLoadFailed
	KindExtractionEmpty
	KindSummarizationFailed
)

func (k Kind) String() string {
	switch k {
	case KindSummary:
		return "summary"
	case KindNoResults:
		return "no_results"
	case KindPageLoadFailed:
		return "page_load_failed"
	case KindExtractionEmpty:
		return "extraction_empty"
	case KindSummarizationFailed:
		return "summarization_failed"
	default:
		return "unknown"
	}
}

// Request describes one research run. Immutable once built.
type Request struct {
	Query    string
	MaxChars int
	// Timeout applies to each stage independently; stage budgets are
	// non-cumulative. Zero falls back to the pipeline's configured budgets.
	Timeout time.Duration
}

// Result is the single terminal outcome of a run. Summary is set only for
// KindSummary; Reason carries the technical detail for failure kinds and is
// logged, never spoken.
type Result struct {
	Kind    Kind
	Summary string
	URL     string
	Reason  string
}

// Spoken renders the result as one short sentence naming the failing stage
// conceptually. Raw error detail stays in Reason.
func (r Result) Spoken(query string) string {
	switch r.Kind {
	case KindSummary:
		return fmt.Sprintf("Here's a summary from the first result I found for %q: %s", query, r.Summary)
	case KindNoResults:
		return fmt.Sprintf("Sorry, I couldn't find any search results for %q.", query)
	case KindPageLoadFailed:
		return "Sorry, I couldn't load that page."
	case KindExtractionEmpty:
		return "Sorry, I couldn't extract enough readable content from that page to summarize."
	case KindSummarizationFailed:
		return "I got the page content, but couldn't summarize it."
	default:
		return "Sorry, something went wrong with that search."
	}
}

// Config holds the per-stage budgets and extraction threshold.
type Config struct {
	SearchTimeout    time.Duration
	NavigateTimeout  time.Duration
	SummarizeTimeout time.Duration
	// MinTextLen is the smallest extracted-text size considered usable.
	MinTextLen int
}

// DefaultConfig returns the standard budgets.
func DefaultConfig() Config {
	return Config{
		SearchTimeout:    15 * time.Second,
		NavigateTimeout:  15 * time.Second,
		SummarizeTimeout: 60 * time.Second,
		MinTextLen:       100,
	}
}

// Pipeline wires the four capabilities together.
type Pipeline struct {
	searcher  capability.Searcher
	renderer  capability.Renderer
	extractor capability.Extractor
	llm       capability.LLM
	cfg       Config
	logger    *zap.Logger
}

// New builds a pipeline. A nil logger disables logging.
func New(searcher capability.Searcher, renderer capability.Renderer, extractor capability.Extractor, llm capability.LLM, cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinTextLen <= 0 {
		cfg.MinTextLen = 100
	}
	return &Pipeline{
		searcher:  searcher,
		renderer:  renderer,
		extractor: extractor,
		llm:       llm,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes the pipeline for req and always produces exactly one terminal
// Result. It performs a single attempt per stage, gives each stage its own
// timeout, and converts any panic into the failure variant of the stage that
// raised it.
func (p *Pipeline) Run(ctx context.Context, req Request) (result Result) {
	stage := KindNoResults
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("research pipeline fault",
				zap.String("query", req.Query),
				zap.String("stage", stage.String()),
				zap.Any("panic", rec))
			result = Result{Kind: stage, Reason: fmt.Sprintf("internal fault: %v", rec)}
			if result.Kind == KindSummary {
				result.Kind = KindSummarizationFailed
			}
		}
	}()

	// Stage 1: search.
	searchCtx, cancel := p.stageContext(ctx, req.Timeout, p.cfg.SearchTimeout)
	url, err := p.searcher.FirstResult(searchCtx, req.Query)
	cancel()
	if err != nil {
		if !errors.Is(err, capability.ErrNoResults) {
			p.logger.Warn("search stage failed", zap.String("query", req.Query), zap.Error(err))
		}
		return Result{Kind: KindNoResults, Reason: err.Error()}
	}
	p.logger.Debug("search stage complete", zap.String("query", req.Query), zap.String("url", url))

	// Stage 2: navigate. The renderer guarantees its own session teardown;
	// any error here means the page never became usable.
	stage = KindPageLoadFailed
	navCtx, cancel := p.stageContext(ctx, req.Timeout, p.cfg.NavigateTimeout)
	html, err := p.renderer.Render(navCtx, url)
	cancel()
	if err != nil {
		p.logger.Warn("navigate stage failed", zap.String("url", url), zap.Error(err))
		return Result{Kind: KindPageLoadFailed, URL: url, Reason: err.Error()}
	}

	// Stage 3: extract visible text.
	stage = KindExtractionEmpty
	text := p.extractor.Extract(html)
	if len(text) < p.cfg.MinTextLen {
		p.logger.Warn("extraction produced too little text",
			zap.String("url", url), zap.Int("chars", len(text)))
		return Result{Kind: KindExtractionEmpty, URL: url, Reason: fmt.Sprintf("extracted %d chars", len(text))}
	}

	// Stage 4: truncate. Hard cutoff at the character boundary; the model
	// tolerates a trailing partial sentence.
	text = Truncate(text, req.MaxChars)

	// Stage 5: summarize.
	stage = KindSummarizationFailed
	sumCtx, cancel := p.stageContext(ctx, req.Timeout, p.cfg.SummarizeTimeout)
	summary, err := p.llm.CompleteWithSystem(sumCtx, summarySystemPrompt, summaryPrompt(req.Query, text))
	cancel()
	if err != nil {
		p.logger.Warn("summarize stage failed", zap.String("url", url), zap.Error(err))
		return Result{Kind: KindSummarizationFailed, URL: url, Reason: err.Error()}
	}

	p.logger.Info("research pipeline complete",
		zap.String("query", req.Query),
		zap.String("url", url),
		zap.Int("source_chars", len(text)),
		zap.Int("summary_chars", len(summary)))
	return Result{Kind: KindSummary, Summary: summary, URL: url}
}

// stageContext derives a per-stage context. The request override wins, then
// the configured budget; with neither, the parent alone bounds the stage.
func (p *Pipeline) stageContext(ctx context.Context, override, budget time.Duration) (context.Context, context.CancelFunc) {
	d := budget
	if override > 0 {
		d = override
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Truncate caps s at maxChars characters. The cut is a hard boundary, not
// sentence-aware.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

const summarySystemPrompt = "You are a research assistant. Answer concisely in two to four sentences suitable for being read aloud."

func summaryPrompt(query, text string) string {
	return fmt.Sprintf("Provide a concise summary of the main points from the following text, extracted from a web page about %q:\n\n%s", query, text)
}
