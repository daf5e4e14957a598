package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const jokeEndpoint = "https://v2.jokeapi.dev/joke/Any?safe-mode"

type jokeResponse struct {
	Error    bool   `json:"error"`
	Type     string `json:"type"` // "single" or "twopart"
	Joke     string `json:"joke"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
	Message  string `json:"message"`
}

// Joke fetches one from JokeAPI. Two-part jokes speak the setup, pause for
// effect, and return the delivery as the final line.
func (s *Set) Joke(ctx context.Context, utterance, trigger string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.jokeEndpoint, nil)
	if err != nil {
		s.logger.Error("build joke request", zap.Error(err))
		return "Sorry, I couldn't fetch a joke."
	}

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Error("joke request failed", zap.Error(err))
		return "Sorry, I couldn't connect to the joke service."
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("joke API error", zap.Int("status", resp.StatusCode))
		return "Sorry, the joke service returned an error."
	}

	var joke jokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&joke); err != nil {
		s.logger.Error("parse joke response", zap.Error(err))
		return "Sorry, I couldn't read the joke."
	}
	if joke.Error {
		s.logger.Error("joke API reported an error", zap.String("message", joke.Message))
		return "Sorry, I couldn't fetch a joke right now."
	}

	switch joke.Type {
	case "single":
		return joke.Joke
	case "twopart":
		_ = s.speaker.Speak(ctx, joke.Setup)
		s.pause(1500 * time.Millisecond)
		return joke.Delivery
	default:
		return "I found a joke, but its format confused me."
	}
}
