package assistant

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"voxpilot/internal/capability"
	"voxpilot/internal/config"
	"voxpilot/internal/handlers"
	"voxpilot/internal/notes"
	"voxpilot/internal/research"
	"voxpilot/internal/router"
)

type harness struct {
	assistant *Assistant
	listener  *capability.FakeListener
	speaker   *capability.FakeSpeaker
	llm       *capability.FakeLLM
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.APIKeys.Groq = "gsk_test"
	cfg.Identity.UserName = "Ada"
	cfg.Identity.NotesFile = filepath.Join(t.TempDir(), "notes.txt")

	h := &harness{
		listener: &capability.FakeListener{},
		speaker:  &capability.FakeSpeaker{},
		llm:      &capability.FakeLLM{Reply: "fallback reply"},
	}

	pipeline := research.New(
		&capability.FakeSearcher{URL: "https://example.com"},
		&capability.FakeRenderer{HTML: "<html></html>"},
		&capability.FakeExtractor{Text: strings.Repeat("page content. ", 20)},
		h.llm,
		research.DefaultConfig(),
		nil,
	)
	set := handlers.New(cfg, h.llm, pipeline, notes.NewStore(cfg.Identity.NotesFile), h.listener, h.speaker, nil)

	h.assistant = New(cfg, h.listener, h.speaker, router.New(router.DefaultRules()), set, nil, nil)
	return h
}

func TestDispatch_RoutedCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	spoken, exit := h.assistant.Dispatch(context.Background(), "take note buy milk")
	if exit {
		t.Error("note command reported exit")
	}
	if !strings.Contains(spoken, "buy milk") {
		t.Errorf("spoken = %q", spoken)
	}
}

func TestDispatch_ExitCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	spoken, exit := h.assistant.Dispatch(context.Background(), "goodbye")
	if !exit {
		t.Fatal("goodbye did not signal exit")
	}
	if !strings.Contains(spoken, "Goodbye Ada") {
		t.Errorf("spoken = %q", spoken)
	}
}

func TestDispatch_FallbackNeverSilent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	spoken, exit := h.assistant.Dispatch(context.Background(), "ponder the nature of existence")
	if exit {
		t.Error("fallback reported exit")
	}
	if spoken != "fallback reply" {
		t.Errorf("spoken = %q, want LLM fallback", spoken)
	}
	if len(h.llm.Prompts) != 1 || h.llm.Prompts[0] != "ponder the nature of existence" {
		t.Errorf("LLM prompts = %v", h.llm.Prompts)
	}
}

func TestCycle_SpeaksReply(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.listener.Utterances = []string{"how are you"}

	exit := h.assistant.Cycle(context.Background())
	if exit {
		t.Error("status command reported exit")
	}
	if len(h.speaker.Spoken) != 1 || !strings.Contains(h.speaker.Spoken[0], "operational") {
		t.Errorf("spoken = %v", h.speaker.Spoken)
	}
}

func TestCycle_SilenceIsQuiet(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.listener.Errs = []error{capability.ErrNoSpeech}

	if exit := h.assistant.Cycle(context.Background()); exit {
		t.Error("silent cycle reported exit")
	}
	if len(h.speaker.Spoken) != 0 {
		t.Errorf("silence produced speech: %v", h.speaker.Spoken)
	}
}

func TestCycle_UnintelligibleApologizes(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.listener.Errs = []error{capability.ErrUnintelligible}

	if exit := h.assistant.Cycle(context.Background()); exit {
		t.Error("unintelligible cycle reported exit")
	}
	if len(h.speaker.Spoken) != 1 || !strings.Contains(h.speaker.Spoken[0], "understand") {
		t.Errorf("spoken = %v", h.speaker.Spoken)
	}
}

func TestRun_StopsOnExitCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.listener.Utterances = []string{"hello there", "goodbye"}

	h.assistant.Run(context.Background())

	// Greeting, hello reply, goodbye reply.
	if len(h.speaker.Spoken) != 3 {
		t.Fatalf("spoken = %v", h.speaker.Spoken)
	}
	if !strings.Contains(h.speaker.Spoken[2], "Goodbye") {
		t.Errorf("last line = %q", h.speaker.Spoken[2])
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With a cancelled context the loop must exit right after the greeting,
	// before its first listen.
	h.assistant.Run(ctx)
	if len(h.speaker.Spoken) != 1 {
		t.Errorf("spoken = %v, want greeting only", h.speaker.Spoken)
	}
}
