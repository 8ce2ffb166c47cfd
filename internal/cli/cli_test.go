package cli

import (
	"strings"
	"testing"

	"github.com/shelfware/shelf-admin/internal/config"
	"github.com/shelfware/shelf-admin/internal/explorer"
	"github.com/shelfware/shelf-admin/internal/models"
)

func TestSplitItemRef(t *testing.T) {
	tests := []struct {
		ref       string
		container string
		item      string
		wantErr   bool
	}{
		{"books/alg-101", "books", "alg-101", false},
		{"audio-books/war-and-peace", "audio-books", "war-and-peace", false},
		{"books", "", "", true},
		{"books/", "", "", true},
		{"/alg-101", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		container, item, err := splitItemRef(tt.ref)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitItemRef(%q): expected error", tt.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitItemRef(%q): unexpected error: %v", tt.ref, err)
			continue
		}
		if container != tt.container || item != tt.item {
			t.Errorf("splitItemRef(%q) = %q/%q, want %q/%q", tt.ref, container, item, tt.container, tt.item)
		}
	}
}

func TestMergeFlags(t *testing.T) {
	defer func() {
		token, tokenType, apiBaseURL, verbose = "", "", "", false
	}()

	cfg := &config.Config{}
	cfg.Platform.URL = "https://configured.example.com"
	cfg.Platform.Token = "config-token"
	cfg.Logging.Level = "INFO"

	token = "flag-token"
	apiBaseURL = "https://flagged.example.com"
	verbose = true
	mergeFlags(cfg)

	if cfg.Platform.Token != "flag-token" {
		t.Errorf("Expected flag token to win, got %q", cfg.Platform.Token)
	}
	if cfg.Platform.URL != "https://flagged.example.com" {
		t.Errorf("Expected flag URL to win, got %q", cfg.Platform.URL)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected verbose to force DEBUG, got %q", cfg.Logging.Level)
	}

	// Unset flags leave config values alone.
	if cfg.Platform.TokenType != "" {
		t.Errorf("Unset token-type flag mutated config: %q", cfg.Platform.TokenType)
	}
}

func TestRenderTree(t *testing.T) {
	root := &explorer.Node{
		Name: "alg-101",
		Kind: models.NodeKindFolder,
		Children: []*explorer.Node{
			{
				Name:         "assets",
				Kind:         models.NodeKindFolder,
				RelativePath: "assets/",
				Children: []*explorer.Node{
					{Name: "cover.png", Kind: models.NodeKindFile, RelativePath: "assets/cover.png", Size: 2048},
				},
			},
			{Name: "manifest.json", Kind: models.NodeKindFile, RelativePath: "manifest.json", Size: 64},
		},
	}

	var sb strings.Builder
	renderTree(&sb, root, "")
	out := sb.String()

	for _, want := range []string{
		"├── assets/",
		"│   └── cover.png  [image, 2.0 KiB]",
		"└── manifest.json  [64 B]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Tree output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintMetadata(t *testing.T) {
	var sb strings.Builder
	printMetadata(&sb, explorer.Metadata{Publisher: "Acme Press", Name: "Algebra 101"})
	out := sb.String()

	if !strings.Contains(out, "Publisher: Acme Press") {
		t.Errorf("Expected publisher line, got:\n%s", out)
	}
	// Absent fields render as a dash, never as empty strings.
	if !strings.Contains(out, "Language:  -") {
		t.Errorf("Expected dash for absent language, got:\n%s", out)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
