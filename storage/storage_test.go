package storage

import (
	"context"
	"errors"
	"testing"
)

func TestExportKey(t *testing.T) {
	got := ExportKey("Backyard Olympics 2026", 12, "schedule.csv")
	want := "exports/backyard-olympics-2026-12/schedule.csv"
	if got != want {
		t.Errorf("ExportKey() = %q, want %q", got, want)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "exports/a-1/schedule.csv", "https://cdn.example.com/exports/a-1/schedule.csv"},
		{"https://cdn.example.com/files", "/exports/a-1/standings.csv", "https://cdn.example.com/files/exports/a-1/standings.csv"},
		{"https://cdn.example.com/files/", "exports/a-1/standings.csv", "https://cdn.example.com/files/exports/a-1/standings.csv"},
	}
	for _, tt := range tests {
		base, err := parsePublicBaseURL(tt.base)
		if err != nil {
			t.Fatal(err)
		}
		if got := publicURL(base, tt.key); got != tt.want {
			t.Errorf("publicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestNewCloudflareR2UploaderRequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "acc"})
	if !errors.Is(err, ErrInvalidR2Config) {
		t.Fatalf("expected ErrInvalidR2Config, got %v", err)
	}
	if (CloudflareR2UploaderConfig{}).Enabled() {
		t.Error("empty config should be disabled")
	}
}
