package service

import (
	"context"
	"strings"
	"time"

	"github.com/MikhailRaia/shortify/internal/apperr"
	"github.com/MikhailRaia/shortify/internal/model"
)

// LinkAPI is the subset of the API client the service relies on.
type LinkAPI interface {
	GetInfo(ctx context.Context, code string) (model.Link, error)
	ListAll(ctx context.Context) ([]model.Link, error)
	Delete(ctx context.Context, code string) error
	Update(ctx context.Context, code string, patch model.LinkPatch) (model.Link, error)
}

// LinkView is a link together with its absolute short URL.
type LinkView struct {
	ShortCode string    `json:"short_code"`
	LongURL   string    `json:"long_url"`
	ShortURL  string    `json:"short_url"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// LinkService resolves and manages links on behalf of the web surface.
type LinkService struct {
	api    LinkAPI
	origin string
}

// NewLinkService constructs a LinkService whose short URLs live under origin.
func NewLinkService(api LinkAPI, origin string) *LinkService {
	return &LinkService{
		api:    api,
		origin: strings.TrimRight(origin, "/"),
	}
}

// ShortURL returns the absolute short URL of code: origin + "/" + code.
func (s *LinkService) ShortURL(code string) string {
	return s.origin + "/" + code
}

// Origin returns the origin short URLs are composed under.
func (s *LinkService) Origin() string {
	return s.origin
}

func (s *LinkService) view(link model.Link) LinkView {
	return LinkView{
		ShortCode: link.ShortCode,
		LongURL:   link.LongURL,
		ShortURL:  s.ShortURL(link.ShortCode),
		CreatedAt: link.CreatedAt,
	}
}

// List returns every link known to the remote service.
func (s *LinkService) List(ctx context.Context) ([]LinkView, error) {
	links, err := s.api.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]LinkView, len(links))
	for i, link := range links {
		result[i] = s.view(link)
	}

	return result, nil
}

// Get returns one link.
func (s *LinkService) Get(ctx context.Context, code string) (LinkView, error) {
	if strings.TrimSpace(code) == "" {
		return LinkView{}, apperr.InvalidInput(opGet, "Short code is required")
	}

	link, err := s.api.GetInfo(ctx, code)
	if err != nil {
		return LinkView{}, err
	}

	return s.view(link), nil
}

// Resolve returns the long URL a short code points to.
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	view, err := s.Get(ctx, code)
	if err != nil {
		return "", err
	}

	if err := model.ValidateURL(view.LongURL); err != nil {
		return "", apperr.NotFound(opGet, "Link not found", 0)
	}

	return view.LongURL, nil
}

// Update applies a partial update after checking the new fields locally.
func (s *LinkService) Update(ctx context.Context, code string, patch model.LinkPatch) (LinkView, error) {
	if patch.IsEmpty() {
		return LinkView{}, apperr.InvalidInput(opUpdate, "Nothing to update")
	}

	if patch.LongURL != "" {
		if err := model.ValidateURL(patch.LongURL); err != nil {
			return LinkView{}, apperr.InvalidInput(opUpdate, "Please enter a valid URL.")
		}
		patch.LongURL = strings.TrimSpace(patch.LongURL)
	}

	link, err := s.api.Update(ctx, code, patch)
	if err != nil {
		return LinkView{}, err
	}

	return s.view(link), nil
}

// Delete removes a link on the remote service.
func (s *LinkService) Delete(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return apperr.InvalidInput(opDelete, "Short code is required")
	}

	return s.api.Delete(ctx, code)
}

const (
	opGet    = "get_link"
	opUpdate = "update_link"
	opDelete = "delete_link"
)
