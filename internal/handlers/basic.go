package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"voxpilot/internal/sysinfo"
)

func (s *Set) Greeting(ctx context.Context, utterance, trigger string) string {
	return fmt.Sprintf("Hello %s!", s.cfg.Identity.UserName)
}

func (s *Set) Status(ctx context.Context, utterance, trigger string) string {
	return "I'm operational and ready for commands."
}

func (s *Set) Exit(ctx context.Context, utterance, trigger string) string {
	return fmt.Sprintf("Goodbye %s! Shutting down.", s.cfg.Identity.UserName)
}

func (s *Set) Time(ctx context.Context, utterance, trigger string) string {
	return fmt.Sprintf("The current time is %s.", time.Now().Format("3:04 PM"))
}

func (s *Set) Date(ctx context.Context, utterance, trigger string) string {
	return fmt.Sprintf("Today's date is %s.", time.Now().Format("January 2, 2006"))
}

// PersonalInfo answers identity questions from the config identity section.
// Ambiguous phrasing defaults to the status reply, like any other unclear
// liveness question.
func (s *Set) PersonalInfo(ctx context.Context, utterance, trigger string) string {
	id := s.cfg.Identity
	switch {
	case strings.Contains(utterance, "my name") || strings.Contains(utterance, "who am i"):
		return fmt.Sprintf("You told me your name is %s.", id.UserName)
	case strings.Contains(utterance, "my hobby") || strings.Contains(utterance, "what do i like"):
		return fmt.Sprintf("I believe your hobby is %s.", id.UserHobby)
	case strings.Contains(utterance, "made you") || strings.Contains(utterance, "created you") || strings.Contains(utterance, "developer"):
		return fmt.Sprintf("I was created by %s.", id.DeveloperName)
	case strings.Contains(utterance, "your name"):
		return fmt.Sprintf("My name is %s.", id.AssistantName)
	default:
		return s.Status(ctx, utterance, trigger)
	}
}

func (s *Set) SystemInfo(ctx context.Context, utterance, trigger string) string {
	snap, err := sysinfo.Collect(ctx)
	if err != nil {
		s.logger.Error("failed to collect system info", zap.Error(err))
		return "Sorry, I couldn't retrieve system details."
	}
	return snap.Spoken()
}
