package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/apperr"
	"github.com/MikhailRaia/shortify/internal/logger"
	"github.com/MikhailRaia/shortify/internal/middleware"
	"github.com/MikhailRaia/shortify/internal/model"
	"github.com/MikhailRaia/shortify/internal/pool"
	"github.com/MikhailRaia/shortify/internal/service"
	"github.com/MikhailRaia/shortify/internal/ui"
)

// Sessions hands out the controller of a browser session.
type Sessions interface {
	Get(clientID string) (*ui.Controller, bool)
}

// LinkService manages links on the remote API.
type LinkService interface {
	List(ctx context.Context) ([]service.LinkView, error)
	Get(ctx context.Context, code string) (service.LinkView, error)
	Update(ctx context.Context, code string, patch model.LinkPatch) (service.LinkView, error)
	Delete(ctx context.Context, code string) error
	Resolve(ctx context.Context, code string) (string, error)
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the page, its form actions and the JSON API.
type Handler struct {
	sessions Sessions
	links    LinkService
	pinger   Pinger
	auth     *middleware.AuthMiddleware
	page     *page
	buffers  *pool.Pool[*bytes.Buffer]
}

var errNoSession = errors.New("no session in request context")

// NewHandler wires a Handler.
func NewHandler(sessions Sessions, links LinkService, pinger Pinger, auth *middleware.AuthMiddleware, opts ...PageOption) *Handler {
	return &Handler{
		sessions: sessions,
		links:    links,
		pinger:   pinger,
		auth:     auth,
		page:     newPage(opts...),
		buffers:  pool.New(16, func() *bytes.Buffer { return new(bytes.Buffer) }),
	}
}

func (h *Handler) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(logger.RequestLogger)

	r.Use(middleware.GzipReader)
	r.Use(middleware.GzipMiddleware)

	r.Get("/ping", h.handlePing)
	r.Get("/favicon.ico", handleNoContent)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Session)

		r.Get("/", h.handleIndex)
		r.Post("/shorten", h.handleShortenForm)
		r.Post("/input", h.handleInputForm)
		r.Post("/reset", h.handleResetForm)
		r.Post("/copy", h.handleCopyForm)
		r.Post("/history/{code}/copy", h.handleCopyHistoryForm)

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", h.handleState)
			r.Post("/shorten", h.handleShortenJSON)
			r.Delete("/history", h.handleClearHistory)

			r.Get("/links", h.handleListLinks)
			r.Get("/links/{code}", h.handleGetLink)
			r.Put("/links/{code}", h.handleUpdateLink)
			r.Delete("/links/{code}", h.handleDeleteLink)
		})
	})

	r.Get("/{code}", h.handleRedirect)

	return r
}

// controller returns the session's controller, loading its history on first use.
func (h *Handler) controller(r *http.Request) (*ui.Controller, error) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		return nil, errNoSession
	}

	c, created := h.sessions.Get(clientID)
	if created {
		if err := c.Dispatch(r.Context(), ui.Event{Type: ui.EventLoad}); err != nil {
			log.Error().Err(err).Str("client_id", clientID).Msg("Failed to load history")
		}
	}

	return c, nil
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.pinger.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("Storage ping failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// reservedCodes are paths of the page itself and files browsers probe for.
// They never reach the API.
var reservedCodes = map[string]struct{}{
	"api":         {},
	"copy":        {},
	"favicon.ico": {},
	"history":     {},
	"input":       {},
	"metrics":     {},
	"ping":        {},
	"reset":       {},
	"robots.txt":  {},
	"shorten":     {},
	"static":      {},
}

func handleNoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRedirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, reserved := reservedCodes[code]; reserved {
		http.NotFound(w, r)
		return
	}

	longURL, err := h.links.Resolve(r.Context(), code)
	if err != nil {
		status := statusFor(err)
		http.Error(w, apperr.MessageOf(err, http.StatusText(status)), status)
		return
	}

	http.Redirect(w, r, longURL, http.StatusFound)
}

// statusFor maps an error to the HTTP status of JSON responses.
func statusFor(err error) int {
	if errors.Is(err, ui.ErrBusy) {
		return http.StatusConflict
	}

	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindTimeout:
		return http.StatusGatewayTimeout
	case apperr.KindRequestFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind,omitempty"`
	View  *ui.View `json:"view,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, err error, view *ui.View) {
	status := statusFor(err)
	message := apperr.MessageOf(err, http.StatusText(status))
	if errors.Is(err, ui.ErrBusy) {
		message = err.Error()
	}

	writeJSON(w, status, errorResponse{
		Error: message,
		Kind:  string(apperr.KindOf(err)),
		View:  view,
	})
}
