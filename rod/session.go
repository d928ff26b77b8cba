package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// closeTimeout bounds the graceful browser shutdown; the process is killed
// afterwards regardless.
const closeTimeout = 5 * time.Second

// session is one throwaway browser process with its own profile directory.
// Nothing is shared between sessions.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// launchSession starts a headless browser from bin with stability flags.
// The returned session must be closed.
func launchSession(ctx context.Context, bin string) (*session, error) {
	lnchr := launcher.New().
		Context(ctx).
		Bin(bin).
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-blink-features", "AutomationControlled").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		lnchr.Cleanup()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &session{browser: browser, launcher: lnchr}, nil
}

// PID returns the browser process ID.
func (s *session) PID() int {
	return s.launcher.PID()
}

// Close shuts the browser down, kills the process and removes its profile
// directory. It does not depend on the caller's context, which may already
// be done.
func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := s.browser.Context(ctx).Close()
	s.launcher.Kill()
	s.launcher.Cleanup()
	return err
}
