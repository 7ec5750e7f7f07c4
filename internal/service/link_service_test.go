package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MikhailRaia/shortify/internal/apperr"
	"github.com/MikhailRaia/shortify/internal/model"
)

type mockLinkAPI struct {
	getInfoFunc func(code string) (model.Link, error)
	listAllFunc func() ([]model.Link, error)
	deleteFunc  func(code string) error
	updateFunc  func(code string, patch model.LinkPatch) (model.Link, error)
}

func (m *mockLinkAPI) GetInfo(_ context.Context, code string) (model.Link, error) {
	return m.getInfoFunc(code)
}

func (m *mockLinkAPI) ListAll(context.Context) ([]model.Link, error) {
	return m.listAllFunc()
}

func (m *mockLinkAPI) Delete(_ context.Context, code string) error {
	return m.deleteFunc(code)
}

func (m *mockLinkAPI) Update(_ context.Context, code string, patch model.LinkPatch) (model.Link, error) {
	return m.updateFunc(code, patch)
}

func TestLinkService_ShortURL(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		code   string
		want   string
	}{
		{"plain origin", "http://localhost:8080", "abc123", "http://localhost:8080/abc123"},
		{"trailing slash", "https://sho.rt/", "abc123", "https://sho.rt/abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLinkService(&mockLinkAPI{}, tt.origin)
			if got := s.ShortURL(tt.code); got != tt.want {
				t.Errorf("LinkService.ShortURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinkService_List(t *testing.T) {
	api := &mockLinkAPI{
		listAllFunc: func() ([]model.Link, error) {
			return []model.Link{
				{ShortCode: "a", LongURL: "https://a.example"},
				{ShortCode: "b", LongURL: "https://b.example"},
			}, nil
		},
	}
	s := NewLinkService(api, "http://localhost:8080")

	views, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("LinkService.List() error = %v", err)
	}

	if len(views) != 2 {
		t.Fatalf("LinkService.List() returned %d links, want 2", len(views))
	}

	if views[1].ShortURL != "http://localhost:8080/b" {
		t.Errorf("LinkService.List()[1].ShortURL = %v", views[1].ShortURL)
	}
}

func TestLinkService_Resolve(t *testing.T) {
	api := &mockLinkAPI{
		getInfoFunc: func(code string) (model.Link, error) {
			switch code {
			case "abc123":
				return model.Link{ShortCode: code, LongURL: "https://example.com/very/long/path"}, nil
			case "broken":
				return model.Link{ShortCode: code, LongURL: "javascript"}, nil
			default:
				return model.Link{}, apperr.NotFound("get_info", "Link not found", 404)
			}
		},
	}
	s := NewLinkService(api, "http://localhost:8080")

	got, err := s.Resolve(context.Background(), "abc123")
	if err != nil || got != "https://example.com/very/long/path" {
		t.Errorf("LinkService.Resolve() = %v, %v", got, err)
	}

	if _, err := s.Resolve(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("LinkService.Resolve(missing) error = %v, want not found", err)
	}

	if _, err := s.Resolve(context.Background(), "broken"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("LinkService.Resolve(broken) error = %v, want not found", err)
	}

	if _, err := s.Resolve(context.Background(), " "); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("LinkService.Resolve(blank) error = %v, want invalid input", err)
	}
}

func TestLinkService_Update(t *testing.T) {
	called := false
	api := &mockLinkAPI{
		updateFunc: func(code string, patch model.LinkPatch) (model.Link, error) {
			called = true
			return model.Link{ShortCode: code, LongURL: patch.LongURL}, nil
		},
	}
	s := NewLinkService(api, "http://localhost:8080")

	if _, err := s.Update(context.Background(), "abc", model.LinkPatch{}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("LinkService.Update(empty) error = %v, want invalid input", err)
	}

	if _, err := s.Update(context.Background(), "abc", model.LinkPatch{LongURL: "not a url"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("LinkService.Update(bad url) error = %v, want invalid input", err)
	}

	if called {
		t.Fatalf("LinkService.Update() reached the API with invalid input")
	}

	view, err := s.Update(context.Background(), "abc", model.LinkPatch{LongURL: " https://new.example "})
	if err != nil {
		t.Fatalf("LinkService.Update() error = %v", err)
	}

	if view.LongURL != "https://new.example" || view.ShortURL != "http://localhost:8080/abc" {
		t.Errorf("LinkService.Update() = %+v", view)
	}
}

func TestLinkService_Delete(t *testing.T) {
	var deleted string
	api := &mockLinkAPI{
		deleteFunc: func(code string) error {
			deleted = code
			return nil
		},
	}
	s := NewLinkService(api, "http://localhost:8080")

	if err := s.Delete(context.Background(), "abc"); err != nil {
		t.Fatalf("LinkService.Delete() error = %v", err)
	}

	if deleted != "abc" {
		t.Errorf("LinkService.Delete() deleted %q, want %q", deleted, "abc")
	}

	if err := s.Delete(context.Background(), ""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("LinkService.Delete(\"\") error = %v", err)
	}
}
