package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"voxpilot/internal/router"
)

const wikipediaSummaryEndpoint = "https://en.wikipedia.org/api/rest_v1/page/summary/"

type wikipediaSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	Type    string `json:"type"`
}

// Wikipedia speaks the summary of the topic named after the trigger, via the
// REST page/summary endpoint.
func (s *Set) Wikipedia(ctx context.Context, utterance, trigger string) string {
	topic := router.Remainder(utterance, trigger)
	topic = strings.TrimSpace(strings.TrimPrefix(topic, "about"))
	if topic == "" {
		return "What topic should I look up?"
	}

	title := url.PathEscape(strings.ReplaceAll(topic, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.wikiEndpoint+title, nil)
	if err != nil {
		s.logger.Error("build wikipedia request", zap.Error(err))
		return "Sorry, the encyclopedia lookup failed."
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Error("wikipedia request failed", zap.String("topic", topic), zap.Error(err))
		return "Sorry, I couldn't connect to Wikipedia."
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("Sorry, I couldn't find a Wikipedia page for %q.", topic)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Error("wikipedia API error", zap.Int("status", resp.StatusCode))
		return "Sorry, Wikipedia returned an error."
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		s.logger.Error("parse wikipedia response", zap.Error(err))
		return "Sorry, I couldn't read the Wikipedia article."
	}

	if summary.Type == "disambiguation" {
		return fmt.Sprintf("%q could mean several things. Please be more specific.", topic)
	}
	if summary.Extract == "" {
		return fmt.Sprintf("I found a page for %q but it has no summary.", topic)
	}
	return summary.Extract
}
