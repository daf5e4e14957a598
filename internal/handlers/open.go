package handlers

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"voxpilot/internal/router"
)

func defaultOpenURL(u string) error {
	return browser.OpenURL(u)
}

// WebSearch opens the default browser on a Google query for the text after
// the trigger. This is the plain "search for X" command, distinct from the
// research pipeline.
func (s *Set) WebSearch(ctx context.Context, utterance, trigger string) string {
	term := router.Remainder(utterance, trigger)
	if term == "" {
		return "What should I search the web for?"
	}

	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(term)
	if err := s.openURL(searchURL); err != nil {
		s.logger.Error("failed to open browser for search", zap.String("term", term), zap.Error(err))
		return "Sorry, I couldn't open the web browser."
	}
	return fmt.Sprintf("Okay, opening a web search for %q.", term)
}

// Known sites the open command resolves directly.
var knownSites = map[string]string{
	"google":  "https://www.google.com",
	"youtube": "https://www.youtube.com",
	"github":  "https://www.github.com",
}

// Open handles "open X" for known websites and a small set of local
// applications.
func (s *Set) Open(ctx context.Context, utterance, trigger string) string {
	target := router.Remainder(utterance, trigger)
	if target == "" {
		return "What should I open?"
	}

	if site, ok := knownSites[target]; ok {
		if err := s.openURL(site); err != nil {
			s.logger.Error("failed to open site", zap.String("target", target), zap.Error(err))
			return fmt.Sprintf("Sorry, I couldn't open %s.", titleCase(target))
		}
		return fmt.Sprintf("Opening %s in your browser.", titleCase(target))
	}

	if err := openApplication(ctx, normalizeAppName(target)); err != nil {
		s.logger.Warn("failed to open application", zap.String("target", target), zap.Error(err))
		return fmt.Sprintf("Sorry, I couldn't find or open %q on this system.", target)
	}
	return fmt.Sprintf("Trying to open %s.", target)
}

func normalizeAppName(target string) string {
	switch strings.ReplaceAll(target, " ", "") {
	case "notepad", "texteditor", "editor":
		return "editor"
	case "calc", "calculator":
		return "calculator"
	default:
		return target
	}
}

// Per-OS launcher candidates, first found on PATH wins.
var appCommands = map[string]map[string][]string{
	"editor": {
		"windows": {"notepad"},
		"darwin":  {"open -a TextEdit"},
		"linux":   {"gedit", "kate", "mousepad", "pluma", "xed"},
	},
	"calculator": {
		"windows": {"calc"},
		"darwin":  {"open -a Calculator"},
		"linux":   {"gnome-calculator", "kcalc", "galculator"},
	},
}

func openApplication(ctx context.Context, app string) error {
	byOS, ok := appCommands[app]
	if !ok {
		return fmt.Errorf("unknown application %q", app)
	}
	candidates, ok := byOS[runtime.GOOS]
	if !ok {
		return fmt.Errorf("no launcher for %q on %s", app, runtime.GOOS)
	}

	for _, candidate := range candidates {
		parts := strings.Fields(candidate)
		if _, err := exec.LookPath(parts[0]); err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
		if err := cmd.Start(); err != nil {
			continue
		}
		// Detach: the app outlives the command cycle on purpose.
		go func() { _ = cmd.Wait() }()
		return nil
	}
	return fmt.Errorf("no launcher found for %q", app)
}
