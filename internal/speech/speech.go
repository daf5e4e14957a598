// Package speech provides the production Listener and Speaker. Input is
// line-oriented: a speech front-end (or the user, during development) feeds
// transcribed utterances on stdin. Output goes to a local TTS binary when one
// is available and is always echoed to the console.
package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"voxpilot/internal/capability"
)

// Listener reads one utterance per cycle from an input stream. A persistent
// reader goroutine feeds a channel so a timed-out cycle does not leak a
// blocked read; the next cycle picks up the late line instead.
type Listener struct {
	prompt  string
	timeout time.Duration
	lines   chan readResult
	out     io.Writer
}

type readResult struct {
	line string
	err  error
}

// NewListener starts reading from r. Timeout bounds each Listen call; zero
// means wait indefinitely.
func NewListener(r io.Reader, out io.Writer, timeout time.Duration) *Listener {
	l := &Listener{
		prompt:  "You: ",
		timeout: timeout,
		lines:   make(chan readResult),
		out:     out,
	}
	go l.readLoop(r)
	return l
}

func (l *Listener) readLoop(r io.Reader) {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		l.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// Listen blocks for the next utterance. A timeout or closed input maps to
// ErrNoSpeech; a line that normalizes to nothing maps to ErrUnintelligible.
func (l *Listener) Listen(ctx context.Context) (string, error) {
	fmt.Fprint(l.out, l.prompt)

	var timeoutCh <-chan time.Time
	if l.timeout > 0 {
		timer := time.NewTimer(l.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-ctx.Done():
		return "", capability.ErrNoSpeech
	case <-timeoutCh:
		return "", capability.ErrNoSpeech
	case res := <-l.lines:
		if res.err != nil && res.line == "" {
			return "", capability.ErrNoSpeech
		}
		utterance := capability.Normalize(res.line)
		if utterance == "" {
			return "", capability.ErrUnintelligible
		}
		return utterance, nil
	}
}

// Candidate TTS binaries, tried in order when none is configured.
var ttsBinaries = []string{"say", "espeak-ng", "espeak", "flite"}

// Speaker speaks through an external TTS binary and echoes to the console.
type Speaker struct {
	name     string
	binary   string
	echoOnly bool
	out      io.Writer
	logger   *zap.Logger
}

// NewSpeaker resolves the TTS binary. With echoOnly set, or when no binary
// exists on PATH, playback is console echo alone.
func NewSpeaker(assistantName, binary string, echoOnly bool, out io.Writer, logger *zap.Logger) *Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Speaker{name: assistantName, echoOnly: echoOnly, out: out, logger: logger}
	if echoOnly {
		return s
	}

	candidates := ttsBinaries
	if binary != "" {
		candidates = []string{binary}
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			s.binary = path
			return s
		}
	}
	logger.Warn("no TTS binary found, falling back to console output",
		zap.Strings("tried", candidates))
	return s
}

// Speak plays text synchronously. Playback failure is logged, not returned:
// the echoed text already reached the user.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	fmt.Fprintf(s.out, "%s: %s\n", s.name, text)
	if s.binary == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, s.binary, text)
	if err := cmd.Run(); err != nil {
		s.logger.Warn("TTS playback failed", zap.String("binary", s.binary), zap.Error(err))
	}
	return nil
}

// Console returns stdout-backed production speech I/O.
func Console(assistantName string, listenTimeout time.Duration, echoOnly bool, logger *zap.Logger) (*Listener, *Speaker) {
	listener := NewListener(os.Stdin, os.Stdout, listenTimeout)
	speaker := NewSpeaker(assistantName, "", echoOnly, os.Stdout, logger)
	return listener, speaker
}

var (
	_ capability.Listener = (*Listener)(nil)
	_ capability.Speaker  = (*Speaker)(nil)
)
