package webscraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"https://example.com", "https://example.com", false},
		{"example.com", "https://example.com", false},
		{"http://example.com/path", "http://example.com/path", false},
		{" example.com ", "https://example.com", false},
		{"", "", true},
		{"https://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := normalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("normalizeURL(%q): expected error, got %q", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Errorf("normalizeURL(%q): unexpected error: %v", tt.input, err)
				return
			}
			if result != tt.expected {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGuessLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Привет мир, это тестовый текст на русском языке", "ru"},
		{"Hello world, this is a test text in English", "en"},
		{"", "unknown"},
		{"مرحبا بالعالم", "ar"},
		{"12345 !!!", "unknown"},
		// Mixed — cyrillic dominant
		{"Привет hello мир world тест test текст text", "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := guessLanguage(tt.input)
			if result != tt.expected {
				t.Errorf("guessLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTruncateSnippetRuneBoundary(t *testing.T) {
	cjk := strings.Repeat("日本語のページ", 200)
	got := truncateSnippet(cjk, maxSnippetLen)
	if len(got) > maxSnippetLen {
		t.Errorf("len = %d, want <= %d", len(got), maxSnippetLen)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated snippet is not valid UTF-8")
	}

	if got := truncateSnippet("plain text", maxSnippetLen); got != "plain text" {
		t.Errorf("short input changed: %q", got)
	}
}

func TestFetchExtractsPageFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html><head>
<title>Acme Widgets</title>
<meta name="description" content="We sell the best widgets.">
<meta name="keywords" content="widgets, gadgets">
</head><body>
<nav>skip this</nav>
<h1>Widgets for everyone</h1>
<h2>Fast shipping</h2>
<script>var skip = true;</script>
<p>We have been making widgets since 1999 for customers worldwide.</p>
<footer>skip this too</footer>
</body></html>`))
	}))
	defer srv.Close()

	s := NewScraper(2000, 1, zap.NewNop())
	summary, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if summary.Title != "Acme Widgets" {
		t.Errorf("title = %q", summary.Title)
	}
	if summary.Description != "We sell the best widgets." {
		t.Errorf("description = %q", summary.Description)
	}
	if len(summary.Keywords) != 2 || summary.Keywords[0] != "widgets" {
		t.Errorf("keywords = %v", summary.Keywords)
	}
	if len(summary.Headings) != 2 || summary.Headings[0] != "Widgets for everyone" {
		t.Errorf("headings = %v", summary.Headings)
	}
	if strings.Contains(summary.TextSnippet, "skip") {
		t.Errorf("snippet contains stripped content: %q", summary.TextSnippet)
	}
	if !strings.Contains(summary.TextSnippet, "since 1999") {
		t.Errorf("snippet missing body text: %q", summary.TextSnippet)
	}
	if summary.LangGuess != "en" {
		t.Errorf("lang = %q", summary.LangGuess)
	}

	ctxBlock := summary.PromptContext()
	if !strings.Contains(ctxBlock, "Title: Acme Widgets") {
		t.Errorf("prompt context missing title: %q", ctxBlock)
	}
}

func TestFetchDoesNotRetry404(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewScraper(2000, 3, zap.NewNop())
	if _, err := s.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 404")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
