package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"voxpilot/internal/router"
)

// TakeNote appends the text after "take note" to the notes file. When the
// command carried no content it asks once and listens again; a failed or
// empty second listen cancels the note rather than saving garbage.
func (s *Set) TakeNote(ctx context.Context, utterance, trigger string) string {
	content := router.Remainder(utterance, trigger)

	if content == "" {
		_ = s.speaker.Speak(ctx, "What note should I take?")
		heard, err := s.listener.Listen(ctx)
		if err != nil || heard == "" {
			s.logger.Info("note cancelled", zap.Error(err))
			return "Okay, cancelling the note."
		}
		content = heard
	}

	if err := s.notes.Append(content); err != nil {
		s.logger.Error("failed to save note", zap.Error(err))
		return "Sorry, I encountered an error trying to save the note."
	}
	return fmt.Sprintf("Okay, noting down: %q.", content)
}
