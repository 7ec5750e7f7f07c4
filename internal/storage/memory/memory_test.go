package memory

import (
	"context"
	"testing"

	"github.com/MikhailRaia/shortify/internal/storage"
	"github.com/MikhailRaia/shortify/internal/storage/storagetest"
)

func TestStorage_Set(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	if err := s.Set(ctx, "shortifyHistory", `[]`); err != nil {
		t.Errorf("Storage.Set() error = %v", err)
		return
	}

	value, found, err := s.Get(ctx, "shortifyHistory")
	if err != nil {
		t.Errorf("Storage.Get() error = %v", err)
	}

	if !found {
		t.Errorf("Storage.Get() couldn't find value for key = %v", "shortifyHistory")
	}

	if value != `[]` {
		t.Errorf("Storage.Get() = %v, want %v", value, `[]`)
	}

	if err := s.Set(ctx, "shortifyHistory", `[{"short_code":"a"}]`); err != nil {
		t.Errorf("Storage.Set() overwrite error = %v", err)
	}

	value, _, _ = s.Get(ctx, "shortifyHistory")
	if value != `[{"short_code":"a"}]` {
		t.Errorf("Storage.Get() after overwrite = %v", value)
	}

	if s.Len() != 1 {
		t.Errorf("Storage.Len() = %v, want 1", s.Len())
	}
}

func TestStorage_Get(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_ = s.Set(ctx, "present", "value")

	tests := []struct {
		name      string
		key       string
		wantValue string
		wantFound bool
		wantErr   error
	}{
		{
			name:      "Get existing key",
			key:       "present",
			wantValue: "value",
			wantFound: true,
		},
		{
			name:      "Get missing key",
			key:       "missing",
			wantValue: "",
			wantFound: false,
		},
		{
			name:    "Get empty key",
			key:     "",
			wantErr: storage.ErrEmptyKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotValue, gotFound, err := s.Get(ctx, tt.key)

			if err != tt.wantErr {
				t.Errorf("Storage.Get() error = %v, want %v", err, tt.wantErr)
			}

			if gotFound != tt.wantFound {
				t.Errorf("Storage.Get() found = %v, want %v", gotFound, tt.wantFound)
			}

			if gotValue != tt.wantValue {
				t.Errorf("Storage.Get() = %v, want %v", gotValue, tt.wantValue)
			}
		})
	}
}

func TestStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_ = s.Set(ctx, "key", "value")

	if err := s.Delete(ctx, "key"); err != nil {
		t.Fatalf("Storage.Delete() error = %v", err)
	}

	if _, found, _ := s.Get(ctx, "key"); found {
		t.Errorf("Storage.Get() found deleted key")
	}

	if err := s.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Storage.Delete() on missing key error = %v", err)
	}
}

func TestStorage_Contract(t *testing.T) {
	storagetest.Run(t, NewStorage())
}
