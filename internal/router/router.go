// Package router maps a normalized utterance to exactly one capability
// handler. Matching is deterministic substring matching over a static,
// ordered rule table; the first matching rule wins. Ordering is the entire
// defense against overlapping triggers ("search about" vs "search"), so the
// table below is priority-sorted and each rule documents its place.
package router

import (
	"sort"
	"strings"
)

// Handler identifies a capability handler. The router only selects; the
// assistant loop binds names to executable handlers.
type Handler string

const (
	HandlerExit         Handler = "exit"
	HandlerNote         Handler = "note"
	HandlerResearch     Handler = "research"
	HandlerWebSearch    Handler = "web_search"
	HandlerWeather      Handler = "weather"
	HandlerJoke         Handler = "joke"
	HandlerWikipedia    Handler = "wikipedia"
	HandlerSystemInfo   Handler = "system_info"
	HandlerTime         Handler = "time"
	HandlerDate         Handler = "date"
	HandlerPersonalInfo Handler = "personal_info"
	HandlerStatus       Handler = "status"
	HandlerOpen         Handler = "open"
	HandlerGreeting     Handler = "greeting"
	HandlerChat         Handler = "chat" // LLM fallback, never triggered directly
)

// Rule binds a set of trigger phrases to a handler at a fixed priority.
// Lower priority value means matched earlier.
type Rule struct {
	Priority int
	Handler  Handler
	Triggers []string
}

// Decision is the routing outcome for one utterance. When Fallback is set no
// rule matched and Handler is the LLM chat handler.
type Decision struct {
	Handler  Handler
	Trigger  string
	Fallback bool
}

// DefaultRules returns the static rule table. Priorities encode the tie-break
// policy: control commands first, then multi-word phrases, then single-word
// catch-alls. A bare "search" must never shadow "search about".
func DefaultRules() []Rule {
	return []Rule{
		// 10: shutdown must win over everything, including the chat fallback.
		{Priority: 10, Handler: HandlerExit, Triggers: []string{"exit", "quit", "goodbye", "bye", "turn off", "shut down"}},
		// 20: note-taking consumes the rest of the utterance verbatim.
		{Priority: 20, Handler: HandlerNote, Triggers: []string{"take note", "take a note", "make a note"}},
		// 30: research phrases are strictly more specific than "search" and
		// must be matched before the plain browser-search rule.
		{Priority: 30, Handler: HandlerResearch, Triggers: []string{"search about", "search the web for"}},
		// 40: plain browser search, the generic catch-all for "search".
		{Priority: 40, Handler: HandlerWebSearch, Triggers: []string{"search for", "search"}},
		// 50: weather needs a city after the trigger.
		{Priority: 50, Handler: HandlerWeather, Triggers: []string{"weather in", "weather for", "weather"}},
		// 60: joke phrases before "tell me about" so "tell me a joke" never
		// routes to the encyclopedia.
		{Priority: 60, Handler: HandlerJoke, Triggers: []string{"tell me a joke", "say a joke", "another joke"}},
		// 70: encyclopedia lookup.
		{Priority: 70, Handler: HandlerWikipedia, Triggers: []string{"wikipedia", "tell me about"}},
		// 80: host stats.
		{Priority: 80, Handler: HandlerSystemInfo, Triggers: []string{"system information", "system status", "system info"}},
		// 90/100: clock and calendar.
		{Priority: 90, Handler: HandlerTime, Triggers: []string{"what time is it", "current time", "the time"}},
		{Priority: 100, Handler: HandlerDate, Triggers: []string{"what's the date", "today's date", "the date"}},
		// 110: identity questions.
		{Priority: 110, Handler: HandlerPersonalInfo, Triggers: []string{"my name", "who am i", "my hobby", "what do i like", "who made you", "who created you", "your developer", "your name"}},
		// 120: liveness check.
		{Priority: 120, Handler: HandlerStatus, Triggers: []string{"how are you", "status report", "are you there"}},
		// 130: app/site launcher; single generic word, late on purpose.
		{Priority: 130, Handler: HandlerOpen, Triggers: []string{"open"}},
		// 140: greetings sit just above fallback. Bare "hi"/"hey" are left
		// out: as substrings they hide inside words like "history".
		{Priority: 140, Handler: HandlerGreeting, Triggers: []string{"hello", "greetings", "hey there", "hi there", "good morning", "good afternoon", "good evening"}},
	}
}

// Router holds the immutable, priority-ordered rule sequence.
type Router struct {
	rules []Rule
}

// New copies and priority-sorts the rules. The rule set is fixed for the
// router's lifetime.
func New(rules []Rule) *Router {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return &Router{rules: ordered}
}

// Route maps one utterance to a dispatch decision. It is a pure function of
// the utterance and the rule table: no side effects, and it cannot fail —
// an utterance that matches nothing falls back to the chat handler so every
// command produces some response.
func (r *Router) Route(utterance string) Decision {
	for _, rule := range r.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(utterance, trigger) {
				return Decision{Handler: rule.Handler, Trigger: trigger}
			}
		}
	}
	return Decision{Handler: HandlerChat, Fallback: true}
}

// Rules exposes the ordered table for audit and tests.
func (r *Router) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Remainder returns the utterance text after the matched trigger, trimmed of
// surrounding space and punctuation. "take note buy milk" with trigger
// "take note" yields "buy milk".
func Remainder(utterance, trigger string) string {
	if trigger == "" {
		return strings.TrimSpace(utterance)
	}
	idx := strings.Index(utterance, trigger)
	if idx < 0 {
		return strings.TrimSpace(utterance)
	}
	rest := utterance[idx+len(trigger):]
	return strings.Trim(rest, " .,!?")
}
