// Package assistant runs the command cycle: listen, route, execute, speak.
// Execution is single-threaded and strictly sequential; one command finishes
// (including its speech output) before the next listening cycle begins.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxpilot/internal/capability"
	"voxpilot/internal/config"
	"voxpilot/internal/handlers"
	"voxpilot/internal/logging"
	"voxpilot/internal/router"
)

// Assistant owns one listener/speaker pair, the router, and the handler set.
type Assistant struct {
	cfg      *config.Config
	listener capability.Listener
	speaker  capability.Speaker
	router   *router.Router
	handlers *handlers.Set
	session  *logging.SessionLog
	logger   *zap.Logger
	now      func() time.Time
}

// New wires an assistant. session may be nil (events are then dropped).
func New(cfg *config.Config, listener capability.Listener, speaker capability.Speaker, rt *router.Router, set *handlers.Set, session *logging.SessionLog, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		cfg:      cfg,
		listener: listener,
		speaker:  speaker,
		router:   rt,
		handlers: set,
		session:  session,
		logger:   logger,
		now:      time.Now,
	}
}

// Greet speaks the hour-appropriate startup greeting.
func (a *Assistant) Greet(ctx context.Context) {
	var greeting string
	switch hour := a.now().Hour(); {
	case hour < 12:
		greeting = fmt.Sprintf("Good morning %s!", a.cfg.Identity.UserName)
	case hour < 18:
		greeting = fmt.Sprintf("Good afternoon %s!", a.cfg.Identity.UserName)
	default:
		greeting = fmt.Sprintf("Good evening %s!", a.cfg.Identity.UserName)
	}
	_ = a.speaker.Speak(ctx, fmt.Sprintf("%s This is %s. How can I help?", greeting, a.cfg.Identity.AssistantName))
}

// Run loops command cycles until the exit command or context cancellation.
func (a *Assistant) Run(ctx context.Context) {
	a.Greet(ctx)
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("command loop stopped", zap.Error(ctx.Err()))
			return
		default:
		}
		if exit := a.Cycle(ctx); exit {
			return
		}
	}
}

// Cycle executes one listen-route-execute-speak pass and reports whether the
// exit command was handled. Listen failures re-prompt locally and never reach
// the router; nothing in a cycle can terminate the process.
func (a *Assistant) Cycle(ctx context.Context) (exit bool) {
	utterance, err := a.listener.Listen(ctx)
	if err != nil {
		switch {
		case errors.Is(err, capability.ErrNoSpeech):
			// Quiet cycle; just listen again.
		case errors.Is(err, capability.ErrUnintelligible):
			_ = a.speaker.Speak(ctx, "Sorry, I couldn't quite understand that.")
		default:
			a.logger.Error("listen failed", zap.Error(err))
			a.session.Event("listen_error", zap.String("error", err.Error()))
		}
		return false
	}
	if utterance == "" {
		return false
	}

	spoken, exit := a.Dispatch(ctx, utterance)
	_ = a.speaker.Speak(ctx, spoken)
	return exit
}

// Dispatch routes one utterance, runs its handler, and returns the spoken
// reply plus whether it was the exit command. Exposed for the one-shot CLI
// path, which has text input but no audio.
func (a *Assistant) Dispatch(ctx context.Context, utterance string) (string, bool) {
	cycleID := uuid.NewString()
	a.session.Event("command_received",
		zap.String("cycle", cycleID),
		zap.String("utterance", utterance))

	decision := a.router.Route(utterance)
	a.logger.Info("dispatching command",
		zap.String("utterance", utterance),
		zap.String("handler", string(decision.Handler)),
		zap.Bool("fallback", decision.Fallback))
	a.session.Event("handler_invoked",
		zap.String("cycle", cycleID),
		zap.String("handler", string(decision.Handler)),
		zap.String("trigger", decision.Trigger),
		zap.Bool("fallback", decision.Fallback))

	spoken := a.handlers.Execute(ctx, decision, utterance)
	a.session.Event("result",
		zap.String("cycle", cycleID),
		zap.String("handler", string(decision.Handler)),
		zap.Int("spoken_chars", len(spoken)))

	return spoken, decision.Handler == router.HandlerExit
}
