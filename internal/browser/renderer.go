// Package browser renders web pages with a Chrome instance driven through
// rod. Each Render call owns its browser session exclusively and tears it
// down before returning, on every exit path. Leaked Chrome processes are the
// dominant failure mode of this kind of automation, so release is defer-based
// and unconditional.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds browser configuration.
type Config struct {
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	NavigationTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		NavigationTimeout: 15 * time.Second,
	}
}

func (c Config) viewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

func (c Config) viewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

func (c Config) navigationTimeout() time.Duration {
	if c.NavigationTimeout == 0 {
		return 15 * time.Second
	}
	return c.NavigationTimeout
}

// Session describes one completed (or failed) render for the session log.
type Session struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Renderer launches a fresh Chrome per Render call.
type Renderer struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a renderer. A nil logger disables internal logging.
func New(cfg Config, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// Render navigates to url and returns the rendered HTML. The launched Chrome
// and its page are always released before Render returns: teardown is
// registered immediately after each acquisition, so a failure (or panic) in
// any later step still closes everything acquired so far.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	session := Session{ID: uuid.NewString(), URL: url, CreatedAt: time.Now()}
	r.logger.Debug("browser session opening",
		zap.String("session", session.ID),
		zap.String("url", url),
		zap.Bool("headless", r.cfg.Headless))

	launch := launcher.New().Headless(r.cfg.Headless)
	controlURL, err := launch.Launch()
	if err != nil {
		return "", fmt.Errorf("launch chrome: %w", err)
	}
	defer func() {
		launch.Kill()
		launch.Cleanup()
		r.logger.Debug("browser session closed", zap.String("session", session.ID))
	}()

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return "", fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() { _ = b.Close() }()

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             r.cfg.viewportWidth(),
		Height:            r.cfg.viewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		r.logger.Warn("failed to set viewport", zap.Error(err))
	}

	page = page.Timeout(r.cfg.navigationTimeout())
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait for load %s: %w", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page HTML: %w", err)
	}

	r.logger.Debug("browser render complete",
		zap.String("session", session.ID),
		zap.Int("html_bytes", len(html)))
	return html, nil
}
