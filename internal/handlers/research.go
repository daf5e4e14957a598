package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"voxpilot/internal/research"
	"voxpilot/internal/router"
)

// Research runs the search-scrape-summarize pipeline on the text after the
// trigger. Every pipeline outcome, success or stage failure, arrives as a
// speakable sentence.
func (s *Set) Research(ctx context.Context, utterance, trigger string) string {
	query := router.Remainder(utterance, trigger)
	if query == "" {
		return "What should I search about and summarize?"
	}

	_ = s.speaker.Speak(ctx, fmt.Sprintf("Okay, researching %q. This might take a moment.", query))

	result := s.pipeline.Run(ctx, research.Request{
		Query:    query,
		MaxChars: s.cfg.Scraping.MaxChars,
	})
	if result.Kind != research.KindSummary {
		s.logger.Warn("research pipeline did not produce a summary",
			zap.String("query", query),
			zap.String("kind", result.Kind.String()),
			zap.String("reason", result.Reason))
	}
	return result.Spoken(query)
}

const chatSystemTemplate = "You are %s, a helpful voice assistant for %s. Keep responses concise and speakable."

// Chat is the LLM fallback for utterances no rule matched. It guarantees the
// assistant never answers with silence.
func (s *Set) Chat(ctx context.Context, utterance, trigger string) string {
	system := fmt.Sprintf(chatSystemTemplate, s.cfg.Identity.AssistantName, s.cfg.Identity.UserName)
	reply, err := s.llm.CompleteWithSystem(ctx, system, utterance)
	if err != nil {
		s.logger.Error("chat completion failed", zap.Error(err))
		return "Sorry, my chat features are having trouble right now."
	}
	return reply
}
