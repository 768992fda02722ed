// Package notifications collects user-facing toasts. Every failed user action
// ends up here as an error toast with the server's message or a generic one.
package notifications

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FallbackMessage is shown when an error carries no user-facing message
const FallbackMessage = "Something went wrong"

const (
	defaultTTL        = 5 * time.Second
	defaultMaxHistory = 20
)

// Toast is a single notification
type Toast struct {
	ID        string
	Level     Severity
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notifier is the sink failed actions report to
type Notifier interface {
	Notify(level Severity, message string)
	Error(err error)
}

// UserMessager is implemented by errors that carry a message meant for users,
// such as API errors holding the server's explanation
type UserMessager interface {
	UserMessage() string
}

// Center stores toasts until they expire. It is safe for concurrent use.
type Center struct {
	mu         sync.Mutex
	toasts     []Toast
	ttl        time.Duration
	maxHistory int
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Center
type Option func(*Center)

// WithTTL sets how long toasts stay visible
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

// WithLogger sets the logger error toasts are mirrored to
func WithLogger(logger *slog.Logger) Option {
	return func(c *Center) { c.logger = logger }
}

// NewCenter creates an empty Center
func NewCenter(opts ...Option) *Center {
	c := &Center{
		ttl:        defaultTTL,
		maxHistory: defaultMaxHistory,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify adds a toast
func (c *Center) Notify(level Severity, message string) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	})
	if len(c.toasts) > c.maxHistory {
		c.toasts = c.toasts[len(c.toasts)-c.maxHistory:]
	}
}

// Error logs err and adds an error toast with its user-facing message
func (c *Center) Error(err error) {
	if err == nil {
		return
	}
	c.logger.Error("action failed", "error", err)
	c.Notify(Error, MessageFor(err))
}

// MessageFor returns the message a user should see for err
func MessageFor(err error) string {
	var um UserMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return FallbackMessage
}

// Active returns toasts that have not expired yet, oldest first
func (c *Center) Active() []Toast {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, 0, len(c.toasts))
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			out = append(out, t)
		}
	}
	return out
}

// Dismiss removes a toast by id
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return
		}
	}
}

// Clear removes every toast
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = nil
}

var _ Notifier = (*Center)(nil)
