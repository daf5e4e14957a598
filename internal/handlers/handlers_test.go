package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voxpilot/internal/capability"
	"voxpilot/internal/config"
	"voxpilot/internal/notes"
	"voxpilot/internal/research"
	"voxpilot/internal/router"
)

type harness struct {
	set      *Set
	cfg      *config.Config
	listener *capability.FakeListener
	speaker  *capability.FakeSpeaker
	llm      *capability.FakeLLM
	renderer *capability.FakeRenderer
	notes    *notes.Store
	opened   []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.APIKeys.Groq = "gsk_test"
	cfg.Identity.UserName = "Ada"
	cfg.Identity.AssistantName = "Voxpilot"
	cfg.Identity.UserHobby = "chess"
	cfg.Identity.DeveloperName = "Grace"
	cfg.Identity.NotesFile = filepath.Join(t.TempDir(), "notes.txt")

	h := &harness{
		cfg:      cfg,
		listener: &capability.FakeListener{},
		speaker:  &capability.FakeSpeaker{},
		llm:      &capability.FakeLLM{Reply: "canned llm reply"},
		renderer: &capability.FakeRenderer{HTML: "<html></html>"},
	}
	h.notes = notes.NewStore(cfg.Identity.NotesFile)

	pipeline := research.New(
		&capability.FakeSearcher{URL: "https://example.com"},
		h.renderer,
		&capability.FakeExtractor{Text: strings.Repeat("interesting content. ", 20)},
		h.llm,
		research.DefaultConfig(),
		nil,
	)

	h.set = New(cfg, h.llm, pipeline, h.notes, h.listener, h.speaker, nil)
	h.set.openURL = func(u string) error {
		h.opened = append(h.opened, u)
		return nil
	}
	h.set.pause = func(time.Duration) {}
	return h
}

func (h *harness) serve(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestExecute_UnknownHandlerFallsBackToChat(t *testing.T) {
	h := newHarness(t)

	spoken := h.set.Execute(context.Background(), router.Decision{Handler: router.Handler("bogus")}, "anything")
	if spoken != "canned llm reply" {
		t.Errorf("spoken = %q, want chat fallback reply", spoken)
	}
}

func TestChat_LLMFailureStaysSpeakable(t *testing.T) {
	h := newHarness(t)
	h.llm.Err = errors.New("upstream down")

	spoken := h.set.Chat(context.Background(), "tell me something", "")
	if spoken == "" {
		t.Fatal("chat returned silence on LLM failure")
	}
	if !strings.Contains(strings.ToLower(spoken), "trouble") {
		t.Errorf("spoken = %q, want a spoken apology", spoken)
	}
}

func TestChat_SystemPromptCarriesIdentity(t *testing.T) {
	h := newHarness(t)

	h.set.Chat(context.Background(), "hello there", "")
	if len(h.llm.Systems) != 1 {
		t.Fatalf("got %d system prompts", len(h.llm.Systems))
	}
	sys := h.llm.Systems[0]
	if !strings.Contains(sys, "Voxpilot") || !strings.Contains(sys, "Ada") {
		t.Errorf("system prompt missing identity: %q", sys)
	}
}

func TestTakeNote_AppendsAndConfirms(t *testing.T) {
	h := newHarness(t)

	spoken := h.set.TakeNote(context.Background(), "take note buy milk", "take note")
	if !strings.Contains(spoken, "buy milk") {
		t.Errorf("confirmation %q does not repeat the note", spoken)
	}

	lines, err := h.notes.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "] buy milk") {
		t.Errorf("saved lines = %v", lines)
	}
	if !strings.HasPrefix(lines[0], "[") {
		t.Errorf("note missing timestamp prefix: %q", lines[0])
	}
}

func TestTakeNote_AsksWhenEmpty(t *testing.T) {
	h := newHarness(t)
	h.listener.Utterances = []string{"call the dentist"}

	spoken := h.set.TakeNote(context.Background(), "take note", "take note")
	if !strings.Contains(spoken, "call the dentist") {
		t.Errorf("confirmation %q missing dictated note", spoken)
	}
	if len(h.speaker.Spoken) == 0 || !strings.Contains(h.speaker.Spoken[0], "What note") {
		t.Errorf("follow-up question not spoken: %v", h.speaker.Spoken)
	}
}

func TestTakeNote_CancelsOnSilence(t *testing.T) {
	h := newHarness(t)
	h.listener.Errs = []error{capability.ErrNoSpeech}

	spoken := h.set.TakeNote(context.Background(), "take note", "take note")
	if !strings.Contains(spoken, "cancelling") {
		t.Errorf("spoken = %q, want cancellation", spoken)
	}
	if lines, _ := h.notes.List(); len(lines) != 0 {
		t.Errorf("note saved despite cancellation: %v", lines)
	}
}

func TestResearch_SpeaksSummary(t *testing.T) {
	h := newHarness(t)
	h.llm.Reply = "Cats are small domesticated felines."

	spoken := h.set.Research(context.Background(), "search about cats", "search about")
	if !strings.Contains(spoken, "Cats are small domesticated felines.") {
		t.Errorf("spoken = %q, want summary", spoken)
	}
	if len(h.speaker.Spoken) == 0 || !strings.Contains(h.speaker.Spoken[0], "researching") {
		t.Errorf("progress line not spoken: %v", h.speaker.Spoken)
	}
	if h.renderer.Opened != h.renderer.Closed {
		t.Errorf("renderer leaked: opened=%d closed=%d", h.renderer.Opened, h.renderer.Closed)
	}
}

func TestResearch_EmptyQueryAsks(t *testing.T) {
	h := newHarness(t)

	spoken := h.set.Research(context.Background(), "search about", "search about")
	if !strings.Contains(spoken, "search about") {
		t.Errorf("spoken = %q, want clarification question", spoken)
	}
	if h.renderer.Opened != 0 {
		t.Error("pipeline ran without a query")
	}
}

func TestWebSearch_OpensBrowser(t *testing.T) {
	h := newHarness(t)

	spoken := h.set.WebSearch(context.Background(), "search for go generics", "search for")
	if !strings.Contains(spoken, "go generics") {
		t.Errorf("spoken = %q", spoken)
	}
	if len(h.opened) != 1 || !strings.Contains(h.opened[0], "go+generics") {
		t.Errorf("opened URLs = %v", h.opened)
	}
}

func TestOpen_KnownSite(t *testing.T) {
	h := newHarness(t)

	spoken := h.set.Open(context.Background(), "open youtube", "open")
	if !strings.Contains(spoken, "Youtube") {
		t.Errorf("spoken = %q", spoken)
	}
	if len(h.opened) != 1 || h.opened[0] != "https://www.youtube.com" {
		t.Errorf("opened URLs = %v", h.opened)
	}
}

func TestWeather_Report(t *testing.T) {
	h := newHarness(t)
	h.cfg.APIKeys.OpenWeatherMap = "owm_test"
	h.set.weatherEndpoint = h.serve(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "london" {
			t.Errorf("city query = %q", got)
		}
		fmt.Fprint(w, `{"name":"London","main":{"temp":14.2,"feels_like":13.1,"humidity":81},"weather":[{"description":"light rain"}],"wind":{"speed":4.5}}`)
	})

	spoken := h.set.Weather(context.Background(), "weather in london", "weather in")
	for _, want := range []string{"London", "light rain", "14.2", "81 percent"} {
		if !strings.Contains(spoken, want) {
			t.Errorf("report %q missing %q", spoken, want)
		}
	}
}

func TestWeather_UnknownCity(t *testing.T) {
	h := newHarness(t)
	h.cfg.APIKeys.OpenWeatherMap = "owm_test"
	h.set.weatherEndpoint = h.serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	spoken := h.set.Weather(context.Background(), "weather in atlantis", "weather in")
	if !strings.Contains(spoken, "Atlantis") {
		t.Errorf("spoken = %q", spoken)
	}
}

func TestWeather_MissingKey(t *testing.T) {
	h := newHarness(t)
	h.cfg.APIKeys.OpenWeatherMap = ""

	spoken := h.set.Weather(context.Background(), "weather in london", "weather in")
	if !strings.Contains(spoken, "unavailable") {
		t.Errorf("spoken = %q, want unavailability message", spoken)
	}
}

func TestJoke_Single(t *testing.T) {
	h := newHarness(t)
	h.set.jokeEndpoint = h.serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":false,"type":"single","joke":"I would tell you a UDP joke, but you might not get it."}`)
	})

	spoken := h.set.Joke(context.Background(), "tell me a joke", "tell me a joke")
	if !strings.Contains(spoken, "UDP joke") {
		t.Errorf("spoken = %q", spoken)
	}
}

func TestJoke_TwoPartSpeaksSetupFirst(t *testing.T) {
	h := newHarness(t)
	h.set.jokeEndpoint = h.serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":false,"type":"twopart","setup":"Why do programmers prefer dark mode?","delivery":"Because light attracts bugs."}`)
	})

	spoken := h.set.Joke(context.Background(), "tell me a joke", "tell me a joke")
	if spoken != "Because light attracts bugs." {
		t.Errorf("delivery = %q", spoken)
	}
	if len(h.speaker.Spoken) != 1 || !strings.Contains(h.speaker.Spoken[0], "dark mode") {
		t.Errorf("setup not spoken first: %v", h.speaker.Spoken)
	}
}

func TestJoke_ServiceError(t *testing.T) {
	h := newHarness(t)
	h.set.jokeEndpoint = h.serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	spoken := h.set.Joke(context.Background(), "tell me a joke", "tell me a joke")
	if !strings.HasPrefix(spoken, "Sorry") {
		t.Errorf("spoken = %q, want spoken failure", spoken)
	}
}

func TestWikipedia_Summary(t *testing.T) {
	h := newHarness(t)
	var gotPath string
	h.set.wikiEndpoint = h.serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"title":"Alan Turing","extract":"Alan Turing was an English mathematician.","type":"standard"}`)
	}) + "/"

	spoken := h.set.Wikipedia(context.Background(), "tell me about alan turing", "tell me about")
	if spoken != "Alan Turing was an English mathematician." {
		t.Errorf("spoken = %q", spoken)
	}
	if !strings.Contains(gotPath, "alan_turing") {
		t.Errorf("request path = %q, want underscored title", gotPath)
	}
}

func TestWikipedia_Disambiguation(t *testing.T) {
	h := newHarness(t)
	h.set.wikiEndpoint = h.serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title":"Mercury","extract":"","type":"disambiguation"}`)
	}) + "/"

	spoken := h.set.Wikipedia(context.Background(), "wikipedia mercury", "wikipedia")
	if !strings.Contains(spoken, "several things") {
		t.Errorf("spoken = %q", spoken)
	}
}

func TestWikipedia_NotFound(t *testing.T) {
	h := newHarness(t)
	h.set.wikiEndpoint = h.serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}) + "/"

	spoken := h.set.Wikipedia(context.Background(), "wikipedia zxqwv", "wikipedia")
	if !strings.Contains(spoken, "zxqwv") {
		t.Errorf("spoken = %q", spoken)
	}
}

func TestPersonalInfo(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		utterance, want string
	}{
		{"what is my name", "Ada"},
		{"what is my hobby", "chess"},
		{"who made you", "Grace"},
		{"what is your name", "Voxpilot"},
	}
	for _, tc := range cases {
		spoken := h.set.PersonalInfo(context.Background(), tc.utterance, "")
		if !strings.Contains(spoken, tc.want) {
			t.Errorf("PersonalInfo(%q) = %q, want mention of %q", tc.utterance, spoken, tc.want)
		}
	}
}

func TestExit_NamesUser(t *testing.T) {
	h := newHarness(t)

	spoken := h.set.Exit(context.Background(), "goodbye", "goodbye")
	if !strings.Contains(spoken, "Ada") {
		t.Errorf("spoken = %q", spoken)
	}
}
