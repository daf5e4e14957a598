package capability

import "context"

// FakeListener replays scripted utterances, then reports no speech.
type FakeListener struct {
	Utterances []string
	Errs       []error
	next       int
}

func (f *FakeListener) Listen(ctx context.Context) (string, error) {
	i := f.next
	f.next++
	if i < len(f.Errs) && f.Errs[i] != nil {
		return "", f.Errs[i]
	}
	if i < len(f.Utterances) {
		return Normalize(f.Utterances[i]), nil
	}
	return "", ErrNoSpeech
}

// FakeSpeaker records everything spoken.
type FakeSpeaker struct {
	Spoken []string
}

func (f *FakeSpeaker) Speak(ctx context.Context, text string) error {
	f.Spoken = append(f.Spoken, text)
	return nil
}

// FakeLLM returns a canned reply and records the prompts it was given.
type FakeLLM struct {
	Reply   string
	Err     error
	Prompts []string
	Systems []string
}

func (f *FakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return f.CompleteWithSystem(ctx, "", prompt)
}

func (f *FakeLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.Systems = append(f.Systems, systemPrompt)
	f.Prompts = append(f.Prompts, userPrompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

// FakeSearcher returns a fixed URL or error.
type FakeSearcher struct {
	URL     string
	Err     error
	Queries []string
}

func (f *FakeSearcher) FirstResult(ctx context.Context, query string) (string, error) {
	f.Queries = append(f.Queries, query)
	if f.Err != nil {
		return "", f.Err
	}
	return f.URL, nil
}

// FakeRenderer counts session opens and closes so tests can assert that no
// browser resource outlives a pipeline run.
type FakeRenderer struct {
	HTML   string
	Err    error
	Opened int
	Closed int
	URLs   []string
}

func (f *FakeRenderer) Render(ctx context.Context, url string) (string, error) {
	f.URLs = append(f.URLs, url)
	f.Opened++
	defer func() { f.Closed++ }()
	if f.Err != nil {
		return "", f.Err
	}
	return f.HTML, nil
}

// FakeExtractor returns fixed text regardless of input.
type FakeExtractor struct {
	Text  string
	Calls int
}

func (f *FakeExtractor) Extract(html string) string {
	f.Calls++
	return f.Text
}
