// Package ui implements the view controller of the shortening page.
//
// A Controller owns the form, the result panel, the history panel and the
// toast of one browser. It is driven by events through Dispatch and renders
// into a View snapshot, so it can be exercised without a live page.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/apperr"
	"github.com/MikhailRaia/shortify/internal/metrics"
	"github.com/MikhailRaia/shortify/internal/model"
)

// User-facing texts.
const (
	MsgInvalidURL    = "Please enter a valid URL."
	MsgShortened     = "Link successfully shortened!"
	MsgCopied        = "Link copied!"
	MsgCopyFailed    = "Error while copying"
	MsgShortenFailed = "Error when shortening a link"
	MsgNothingToCopy = "Nothing to copy"
	MsgMissingCode   = "Short code is required"
)

const (
	// DefaultFeedback is how long the copy button reads "Copied!".
	DefaultFeedback = 2 * time.Second

	// DefaultTruncation is the length history URLs are cut to.
	DefaultTruncation = 50
)

// ErrBusy is returned for a submit while another one is in flight.
var ErrBusy = errors.New("a request is already in progress")

// Shortener creates short links.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (model.Link, error)
}

// History persists the list of past shortenings.
type History interface {
	Load(ctx context.Context) ([]model.HistoryEntry, error)
	Add(ctx context.Context, link model.Link) ([]model.HistoryEntry, error)
	Clear(ctx context.Context) error
}

// Clipboard receives copied short URLs.
type Clipboard interface {
	WriteText(text string) error
}

// TransitionFunc observes state changes.
type TransitionFunc func(from, to State)

// Result is the content of the result panel.
type Result struct {
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
	ShortCode   string `json:"short_code"`
}

// Controller is the view controller of one browser.
type Controller struct {
	api     Shortener
	history History
	clip    Clipboard
	origin  string

	now          func() time.Time
	onTransition TransitionFunc
	feedback     time.Duration
	toast        *ToastSlot
	handlers     map[EventType]handlerFunc

	mu          sync.Mutex
	state       State
	input       string
	inputError  string
	result      *Result
	entries     []model.HistoryEntry
	copiedUntil time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithToastDelay overrides how long toasts stay visible.
func WithToastDelay(delay time.Duration) Option {
	return func(c *Controller) {
		c.toast = NewToastSlot(delay)
	}
}

// WithClock overrides the clock used for relative dates and copy feedback.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithTransitionHook registers fn to be called on every state change.
// fn runs with the controller locked and must not call back into it.
func WithTransitionHook(fn TransitionFunc) Option {
	return func(c *Controller) {
		c.onTransition = fn
	}
}

// WithCopyFeedback overrides how long the "Copied!" feedback is shown.
func WithCopyFeedback(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.feedback = d
		}
	}
}

// NewController creates an Idle controller whose short URLs live under origin.
func NewController(api Shortener, history History, clip Clipboard, origin string, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		history:  history,
		clip:     clip,
		origin:   strings.TrimRight(origin, "/"),
		now:      time.Now,
		feedback: DefaultFeedback,
		toast:    NewToastSlot(DefaultToastDelay),
		state:    StateIdle,
		entries:  []model.HistoryEntry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handlers = c.routes()

	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close cancels the pending toast dismissal.
func (c *Controller) Close() {
	c.toast.Stop()
}

// ShortURL composes the absolute short URL of code.
func (c *Controller) ShortURL(code string) string {
	return c.origin + "/" + code
}

// transition must be called with c.mu held.
func (c *Controller) transition(to State) {
	from := c.state
	if from == to {
		return
	}
	if !from.canTransition(to) {
		log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Unexpected state transition")
	}

	c.state = to
	log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("State changed")
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}

func (c *Controller) load(ctx context.Context, _ Event) error {
	entries, err := c.history.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load history")
		entries = []model.HistoryEntry{}
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	return nil
}

func (c *Controller) setInput(_ context.Context, evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.input = evt.Value
	c.inputError = ""
	return nil
}

func (c *Controller) submit(ctx context.Context, evt Event) error {
	longURL := strings.TrimSpace(evt.Value)

	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}

	c.input = longURL
	if err := model.ValidateURL(longURL); err != nil {
		c.inputError = MsgInvalidURL
		c.mu.Unlock()
		log.Warn().Str("input", longURL).Msg("Rejected invalid URL")
		return apperr.InvalidInput("submit", MsgInvalidURL)
	}

	c.inputError = ""
	c.transition(StateSubmitting)
	c.mu.Unlock()

	link, err := c.api.Shorten(ctx, longURL)
	if err != nil {
		msg := apperr.MessageOf(err, MsgShortenFailed)

		c.mu.Lock()
		c.transition(StateError)
		c.inputError = msg
		c.toast.Show(msg, ToastError)
		c.transition(StateIdle)
		c.mu.Unlock()

		return err
	}

	// The link exists remotely now, so record it even if the caller went away.
	entries, histErr := c.history.Add(context.WithoutCancel(ctx), link)
	if histErr != nil {
		log.Error().Err(histErr).Str("short_code", link.ShortCode).Msg("Failed to save history")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.result = &Result{
		OriginalURL: link.LongURL,
		ShortURL:    c.ShortURL(link.ShortCode),
		ShortCode:   link.ShortCode,
	}
	if histErr == nil {
		c.entries = entries
	}
	c.copiedUntil = time.Time{}
	c.transition(StateSuccess)
	c.toast.Show(MsgShortened, ToastSuccess)
	metrics.RecordLinkShortened()

	log.Info().Str("short_code", link.ShortCode).Msg("Link shortened")
	return nil
}

func (c *Controller) reset(_ context.Context, _ Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return ErrBusy
	}

	c.input = ""
	c.inputError = ""
	c.result = nil
	c.copiedUntil = time.Time{}
	c.transition(StateIdle)
	return nil
}

func (c *Controller) copyResult(_ context.Context, evt Event) error {
	c.mu.Lock()
	if c.result == nil {
		c.mu.Unlock()
		return apperr.InvalidInput("copy", MsgNothingToCopy)
	}
	shortURL := c.result.ShortURL
	c.mu.Unlock()

	if err := c.copy(shortURL, evt.Copied); err != nil {
		return err
	}

	c.mu.Lock()
	c.copiedUntil = c.now().Add(c.feedback)
	c.mu.Unlock()
	return nil
}

func (c *Controller) copyHistory(_ context.Context, evt Event) error {
	code := strings.TrimSpace(evt.Value)
	if code == "" {
		return apperr.InvalidInput("copy_history", MsgMissingCode)
	}

	return c.copy(c.ShortURL(code), evt.Copied)
}

// copy writes text to the clipboard unless the browser already did.
func (c *Controller) copy(text string, copied bool) error {
	if copied {
		c.toast.Show(MsgCopied, ToastSuccess)
		return nil
	}

	if err := c.clip.WriteText(text); err != nil {
		log.Error().Err(err).Msg("Failed to write clipboard")
		c.toast.Show(MsgCopyFailed, ToastError)
		return apperr.ClipboardFailed("copy", err)
	}

	c.toast.Show(MsgCopied, ToastSuccess)
	return nil
}

func (c *Controller) clearHistory(ctx context.Context, _ Event) error {
	if err := c.history.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	c.mu.Lock()
	c.entries = []model.HistoryEntry{}
	c.mu.Unlock()
	return nil
}
