package model

import (
	"errors"
	"testing"
)

func TestNewTarget(t *testing.T) {
	t.Parallel()

	t.Run("valid https URL", func(t *testing.T) {
		t.Parallel()

		target, err := NewTarget("https://www.example.com/", 20, 0)
		if err != nil {
			t.Fatalf("NewTarget() error = %v, want nil", err)
		}
		if target.URL() != "https://www.example.com/" {
			t.Errorf("URL() = %q, want %q", target.URL(), "https://www.example.com/")
		}
		if target.BaseDomain() != "example.com" {
			t.Errorf("BaseDomain() = %q, want %q", target.BaseDomain(), "example.com")
		}
		if target.MaxPages() != 20 {
			t.Errorf("MaxPages() = %d, want 20", target.MaxPages())
		}
	})

	t.Run("empty URL returns ErrEmptyTargetURL", func(t *testing.T) {
		t.Parallel()

		_, err := NewTarget("   ", 10, 0)
		if !errors.Is(err, ErrEmptyTargetURL) {
			t.Errorf("NewTarget() error = %v, want ErrEmptyTargetURL", err)
		}
	})

	t.Run("non-http scheme returns ErrUnsupportedScheme", func(t *testing.T) {
		t.Parallel()

		_, err := NewTarget("ftp://example.com", 10, 0)
		if !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("NewTarget() error = %v, want ErrUnsupportedScheme", err)
		}
	})

	t.Run("missing host returns ErrInvalidTargetURL", func(t *testing.T) {
		t.Parallel()

		_, err := NewTarget("https://", 10, 0)
		if !errors.Is(err, ErrInvalidTargetURL) {
			t.Errorf("NewTarget() error = %v, want ErrInvalidTargetURL", err)
		}
	})

	t.Run("zero max pages falls back to default", func(t *testing.T) {
		t.Parallel()

		target, err := NewTarget("https://example.com", 0, 0)
		if err != nil {
			t.Fatalf("NewTarget() error = %v, want nil", err)
		}
		if target.MaxPages() != DefaultMaxPages {
			t.Errorf("MaxPages() = %d, want %d", target.MaxPages(), DefaultMaxPages)
		}
	})

	t.Run("negative worker cap normalizes to automatic", func(t *testing.T) {
		t.Parallel()

		target, err := NewTarget("https://example.com", 5, -3)
		if err != nil {
			t.Fatalf("NewTarget() error = %v, want nil", err)
		}
		if target.MaxWorkers() != 0 {
			t.Errorf("MaxWorkers() = %d, want 0", target.MaxWorkers())
		}
	})
}

func TestBaseDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "www prefix stripped", host: "www.example.com", want: "example.com"},
		{name: "uppercase lowered", host: "WWW.Example.COM", want: "example.com"},
		{name: "no www untouched", host: "shop.example.com", want: "shop.example.com"},
		{name: "port preserved", host: "example.com:8080", want: "example.com:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BaseDomain(tt.host); got != tt.want {
				t.Errorf("BaseDomain(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}

func TestTargetIsZero(t *testing.T) {
	t.Parallel()

	var zero Target
	if !zero.IsZero() {
		t.Error("IsZero() = false for zero value, want true")
	}

	target := MustNewTarget("https://example.com", 5, 0)
	if target.IsZero() {
		t.Error("IsZero() = true for valid target, want false")
	}
}
