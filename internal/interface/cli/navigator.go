package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/acharya/acharya/internal/interface/studentlist"
)

// ══════════════════════════════════════════════════════════════════════════════
// NAVIGATOR
// Serves the screens the list controller navigates to. Patterns are
// slash-separated; a segment starting with ':' captures that path segment.
// ══════════════════════════════════════════════════════════════════════════════

// Screen patterns.
const (
	ScreenRegister = studentlist.RouteRegister
	ScreenDetail   = studentlist.RouteList + "/:id"
	ScreenEdit     = studentlist.RouteList + "/:id/edit"
)

// ErrNoScreen is returned when no screen is registered for a path.
var ErrNoScreen = errors.New("no screen for path")

// ScreenFunc renders a screen. params holds the captured segments.
type ScreenFunc func(ctx context.Context, params map[string]string) error

type screen struct {
	pattern  string
	segments []string
	fn       ScreenFunc
}

// Navigator is a studentlist.Router that dispatches to registered screens.
// Screens are matched in registration order; literal patterns should be
// registered before parameterised ones that would also match.
type Navigator struct {
	logger *slog.Logger

	mu      sync.RWMutex
	screens []screen
	history []string
}

var _ studentlist.Router = (*Navigator)(nil)

// NewNavigator creates an empty navigator.
func NewNavigator(log *slog.Logger) *Navigator {
	if log == nil {
		log = slog.Default()
	}
	return &Navigator{logger: log}
}

// Handle registers fn for pattern.
func (n *Navigator) Handle(pattern string, fn ScreenFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.screens = append(n.screens, screen{pattern: pattern, segments: split(pattern), fn: fn})
}

// Navigate renders the screen matching path.
func (n *Navigator) Navigate(ctx context.Context, path string) error {
	n.mu.Lock()
	n.history = append(n.history, path)
	screens := n.screens
	n.mu.Unlock()

	parts := split(path)
	for _, s := range screens {
		params, ok := match(s.segments, parts)
		if !ok {
			continue
		}
		n.logger.Debug("navigate", slog.String("path", path), slog.String("screen", s.pattern))
		return s.fn(ctx, params)
	}
	return fmt.Errorf("%w: %s", ErrNoScreen, path)
}

// History returns every path navigated to, oldest first.
func (n *Navigator) History() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, parts []string) (map[string]string, bool) {
	if len(pattern) != len(parts) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			v, err := url.PathUnescape(parts[i])
			if err != nil {
				return nil, false
			}
			params[seg[1:]] = v
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return params, true
}
