// Package capability defines the external boundaries the assistant core
// depends on. Each interface has exactly one production implementation and a
// fake used by tests, so the router and the research pipeline never need real
// audio, network, or browser access to be exercised.
package capability

import (
	"context"
	"errors"
	"strings"
)

// Listen outcomes that are not utterances. Both are recovered locally by the
// command loop and never reach the router.
var (
	ErrNoSpeech       = errors.New("no speech detected")
	ErrUnintelligible = errors.New("speech not understood")
)

// ErrNoResults is returned by a Searcher when the query produced nothing.
var ErrNoResults = errors.New("no search results")

// Listener produces one normalized utterance per listening cycle.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker performs blocking playback of a spoken response.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// LLM is the language-model completion boundary.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Searcher resolves a query to the first organic result URL.
type Searcher interface {
	FirstResult(ctx context.Context, query string) (string, error)
}

// Renderer loads a URL in a browser session and returns the rendered HTML.
// Implementations must tear the session down before returning, on success and
// on error alike.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Extractor reduces rendered HTML to its visible text.
type Extractor interface {
	Extract(html string) string
}

// Normalize produces the canonical utterance form used for routing: trimmed
// and lowercased. An empty result means nothing usable was heard.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
