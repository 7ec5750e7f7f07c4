package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/apperr"
	"github.com/MikhailRaia/shortify/internal/model"
	"github.com/MikhailRaia/shortify/internal/ui"
)

const maxRequestBody = 1 << 20

type ShortenRequest struct {
	LongURL string `json:"long_url"`
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return apperr.InvalidInput("decode", "Failed to read request body")
	}

	if err := json.Unmarshal(body, v); err != nil {
		return apperr.InvalidInput("decode", "Invalid JSON body")
	}

	return nil
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, c.View())
}

func (h *Handler) handleShortenJSON(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	var req ShortenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	if err := c.Dispatch(r.Context(), ui.Event{Type: ui.EventSubmit, Value: req.LongURL}); err != nil {
		view := c.View()
		writeError(w, err, &view)
		return
	}

	writeJSON(w, http.StatusCreated, c.View())
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	if err := c.Dispatch(r.Context(), ui.Event{Type: ui.EventClearHistory}); err != nil {
		log.Error().Err(err).Msg("Failed to clear history")
		writeError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.List(r.Context())
	if err != nil {
		writeError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, links)
}

func (h *Handler) handleGetLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, link)
}

func (h *Handler) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	var patch model.LinkPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err, nil)
		return
	}

	link, err := h.links.Update(r.Context(), chi.URLParam(r, "code"), patch)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, link)
}

func (h *Handler) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.links.Delete(r.Context(), chi.URLParam(r, "code")); err != nil {
		writeError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

