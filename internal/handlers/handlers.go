// Package handlers executes the capability handlers the router dispatches
// to. Every handler returns spoken-ready text: failures become short spoken
// sentences while the technical detail goes to the log. No handler error can
// escape to the command loop.
package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"voxpilot/internal/capability"
	"voxpilot/internal/config"
	"voxpilot/internal/notes"
	"voxpilot/internal/research"
	"voxpilot/internal/router"
)

// Func executes one command. utterance is the full normalized command,
// trigger the phrase that matched.
type Func func(ctx context.Context, utterance, trigger string) string

// Set binds handler names to implementations over shared dependencies.
type Set struct {
	cfg      *config.Config
	llm      capability.LLM
	pipeline *research.Pipeline
	notes    *notes.Store
	listener capability.Listener
	speaker  capability.Speaker
	http     *http.Client
	logger   *zap.Logger

	// openURL, pause, and the service endpoints are indirected for tests.
	openURL func(url string) error
	pause   func(d time.Duration)

	weatherEndpoint string
	jokeEndpoint    string
	wikiEndpoint    string

	registry map[router.Handler]Func
}

// New wires the handler set. listener and speaker are needed by the
// interactive handlers (note-taking asks a follow-up question, two-part jokes
// pause between setup and delivery).
func New(cfg *config.Config, llm capability.LLM, pipeline *research.Pipeline, store *notes.Store, listener capability.Listener, speaker capability.Speaker, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{
		cfg:      cfg,
		llm:      llm,
		pipeline: pipeline,
		notes:    store,
		listener: listener,
		speaker:  speaker,
		http:     &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
		openURL:  defaultOpenURL,
		pause:    time.Sleep,

		weatherEndpoint: weatherEndpoint,
		jokeEndpoint:    jokeEndpoint,
		wikiEndpoint:    wikipediaSummaryEndpoint,
	}
	s.registry = map[router.Handler]Func{
		router.HandlerExit:         s.Exit,
		router.HandlerNote:         s.TakeNote,
		router.HandlerResearch:     s.Research,
		router.HandlerWebSearch:    s.WebSearch,
		router.HandlerWeather:      s.Weather,
		router.HandlerJoke:         s.Joke,
		router.HandlerWikipedia:    s.Wikipedia,
		router.HandlerSystemInfo:   s.SystemInfo,
		router.HandlerTime:         s.Time,
		router.HandlerDate:         s.Date,
		router.HandlerPersonalInfo: s.PersonalInfo,
		router.HandlerStatus:       s.Status,
		router.HandlerOpen:         s.Open,
		router.HandlerGreeting:     s.Greeting,
		router.HandlerChat:         s.Chat,
	}
	return s
}

// Execute runs the handler for a dispatch decision and returns the text to
// speak. Unknown handler names fall through to the chat fallback so a
// routing/table mismatch still produces a response.
func (s *Set) Execute(ctx context.Context, d router.Decision, utterance string) string {
	fn, ok := s.registry[d.Handler]
	if !ok {
		s.logger.Warn("no handler bound, using chat fallback", zap.String("handler", string(d.Handler)))
		fn = s.Chat
	}
	return fn(ctx, utterance, d.Trigger)
}
