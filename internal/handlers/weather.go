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

const weatherEndpoint = "https://api.openweathermap.org/data/2.5/weather"

type weatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Weather reports current conditions for the city named after the trigger
// ("weather in london"). Requires the OpenWeatherMap key; without it the
// handler reports the capability as unavailable once and moves on.
func (s *Set) Weather(ctx context.Context, utterance, trigger string) string {
	if s.cfg.APIKeys.OpenWeatherMap == "" {
		s.logger.Warn("weather requested but OpenWeatherMap key is not configured")
		return "Weather service is unavailable: no API key is configured."
	}

	city := router.Remainder(utterance, trigger)
	if city == "" {
		return "Which city's weather would you like?"
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", s.cfg.APIKeys.OpenWeatherMap)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.weatherEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		s.logger.Error("build weather request", zap.Error(err))
		return "Sorry, the weather lookup failed."
	}

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Error("weather request failed", zap.String("city", city), zap.Error(err))
		return "Sorry, I couldn't reach the weather service."
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Sprintf("Sorry, I couldn't find weather data for %s.", titleCase(city))
	case http.StatusUnauthorized:
		s.logger.Error("weather API rejected the configured key")
		return "The weather service rejected my credentials."
	default:
		s.logger.Error("weather API error", zap.Int("status", resp.StatusCode))
		return "The weather service returned an error."
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		s.logger.Error("parse weather response", zap.Error(err))
		return "Sorry, I couldn't read the weather report."
	}

	description := "unknown conditions"
	if len(data.Weather) > 0 {
		description = data.Weather[0].Description
	}
	report := fmt.Sprintf("In %s: %s. Temperature %.1f degrees, feels like %.1f. Humidity %d percent.",
		data.Name, description, data.Main.Temp, data.Main.FeelsLike, data.Main.Humidity)
	if data.Wind.Speed > 0 {
		report += fmt.Sprintf(" Wind %.1f meters per second.", data.Wind.Speed)
	}
	return report
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
