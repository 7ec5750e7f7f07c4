package handler

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/qr"
	"github.com/MikhailRaia/shortify/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type page struct {
	toastDelay time.Duration
	qrSize     int
}

// PageOption configures page rendering.
type PageOption func(*page)

// WithToastDelay sets how long the rendered toast stays on screen.
func WithToastDelay(d time.Duration) PageOption {
	return func(p *page) {
		if d > 0 {
			p.toastDelay = d
		}
	}
}

// WithQRSize sets the edge length of the result QR code.
func WithQRSize(size int) PageOption {
	return func(p *page) {
		if size > 0 {
			p.qrSize = size
		}
	}
}

func newPage(opts ...PageOption) *page {
	p := &page{
		toastDelay: ui.DefaultToastDelay,
		qrSize:     qr.DefaultSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type pageData struct {
	View         ui.View
	QRCode       template.URL
	ToastSeconds float64
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := c.Dispatch(r.Context(), ui.Event{Type: ui.EventLoad}); err != nil {
		log.Error().Err(err).Msg("Failed to load history")
	}

	view := c.View()
	data := pageData{
		View:         view,
		ToastSeconds: h.page.toastDelay.Seconds(),
	}

	if view.Result != nil {
		uri, err := qr.DataURI(view.Result.ShortURL, h.page.qrSize)
		if err != nil {
			log.Warn().Err(err).Str("short_url", view.Result.ShortURL).Msg("Failed to render QR code")
		} else {
			data.QRCode = template.URL(uri)
		}
	}

	buf := h.buffers.Get()
	defer h.buffers.Put(buf)

	if err := indexTemplate.Execute(buf, data); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// dispatchForm runs evt and sends the browser back to the page. Failures are
// already part of the view, so they only get logged here.
func (h *Handler) dispatchForm(w http.ResponseWriter, r *http.Request, evt ui.Event) {
	c, err := h.controller(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := c.Dispatch(r.Context(), evt); err != nil {
		log.Debug().Err(err).Str("event", string(evt.Type)).Msg("Form action failed")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleShortenForm(w http.ResponseWriter, r *http.Request) {
	h.dispatchForm(w, r, ui.Event{Type: ui.EventSubmit, Value: r.PostFormValue("url")})
}

func (h *Handler) handleInputForm(w http.ResponseWriter, r *http.Request) {
	h.dispatchForm(w, r, ui.Event{Type: ui.EventInput, Value: r.PostFormValue("url")})
}

func (h *Handler) handleResetForm(w http.ResponseWriter, r *http.Request) {
	h.dispatchForm(w, r, ui.Event{Type: ui.EventReset})
}

func (h *Handler) handleCopyForm(w http.ResponseWriter, r *http.Request) {
	h.dispatchForm(w, r, ui.Event{Type: ui.EventCopyResult, Copied: copiedByBrowser(r)})
}

func (h *Handler) handleCopyHistoryForm(w http.ResponseWriter, r *http.Request) {
	h.dispatchForm(w, r, ui.Event{
		Type:   ui.EventCopyHistory,
		Value:  chi.URLParam(r, "code"),
		Copied: copiedByBrowser(r),
	})
}

// copiedByBrowser reports whether static/copy.js already wrote the user's
// clipboard before submitting the form.
func copiedByBrowser(r *http.Request) bool {
	return r.PostFormValue("copied") == "1"
}

// staticHandler serves the embedded assets without caching.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Error().Err(err).Msg("Failed to open embedded assets")
		return http.NotFoundHandler()
	}

	files := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}
