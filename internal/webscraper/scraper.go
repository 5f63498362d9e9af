package webscraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const maxSnippetLen = 2000

// truncateSnippet caps s at max bytes on a rune boundary, so non-Latin
// pages stay valid UTF-8 after the cut.
func truncateSnippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// SiteSummary is what we could extract from a company website. It feeds
// prompt context, so everything is plain text and bounded in size.
type SiteSummary struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Headings    []string  `json:"headings,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	TextSnippet string    `json:"text_snippet,omitempty"`
	LangGuess   string    `json:"lang_guess"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type Scraper struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewScraper(timeoutMS, maxRetries int, log *zap.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

// Fetch downloads the page at rawURL and extracts title, meta
// description, headings and a text snippet. A scheme-less URL gets
// https:// prepended.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*SiteSummary, error) {
	pageURL, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, pageURL)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break // retrying a 4xx will not help
			}
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, lastErr
	}

	summary := &SiteSummary{
		URL:       pageURL,
		FetchedAt: time.Now(),
	}

	summary.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && summary.Title == "" {
		summary.Title = strings.TrimSpace(og)
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		summary.Description = strings.TrimSpace(desc)
	}
	if summary.Description == "" {
		if og, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
			summary.Description = strings.TrimSpace(og)
		}
	}

	if kw, ok := doc.Find(`meta[name="keywords"]`).Attr("content"); ok {
		for _, k := range strings.Split(kw, ",") {
			k = strings.TrimSpace(k)
			if k != "" {
				summary.Keywords = append(summary.Keywords, k)
			}
		}
	}

	doc.Find("h1, h2").Each(func(i int, sel *goquery.Selection) {
		if len(summary.Headings) >= 10 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text != "" && len(text) <= 200 {
			summary.Headings = append(summary.Headings, text)
		}
	})

	// Body text: strip scripts and styles, collapse whitespace.
	doc.Find("script, style, noscript, nav, footer").Remove()
	body := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	summary.TextSnippet = truncateSnippet(body, maxSnippetLen)
	summary.LangGuess = guessLanguage(summary.Title + " " + summary.Description + " " + body)

	s.log.Debug("site scraped",
		zap.String("url", pageURL),
		zap.String("title", summary.Title),
		zap.Int("snippet_len", len(summary.TextSnippet)),
	)
	return summary, nil
}

// PromptContext renders the summary as a compact block for inclusion in
// an LLM prompt.
func (s *SiteSummary) PromptContext() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "URL: %s\n", s.URL)
	if s.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", s.Title)
	}
	if s.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", s.Description)
	}
	if len(s.Headings) > 0 {
		fmt.Fprintf(&sb, "Headings: %s\n", strings.Join(s.Headings, " | "))
	}
	if len(s.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(s.Keywords, ", "))
	}
	if s.TextSnippet != "" {
		fmt.Fprintf(&sb, "Page text: %s\n", s.TextSnippet)
	}
	return sb.String()
}

func normalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("empty URL")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return u.String(), nil
}

func guessLanguage(text string) string {
	if text == "" {
		return "unknown"
	}

	cyrillicCount := 0
	latinCount := 0
	arabicCount := 0
	cjkCount := 0
	totalLetters := 0

	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		totalLetters++
		if unicode.Is(unicode.Cyrillic, r) {
			cyrillicCount++
		} else if unicode.Is(unicode.Latin, r) {
			latinCount++
		} else if unicode.Is(unicode.Arabic, r) {
			arabicCount++
		} else if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) {
			cjkCount++
		}
	}

	if totalLetters == 0 {
		return "unknown"
	}

	cyrPct := float64(cyrillicCount) / float64(totalLetters)
	latPct := float64(latinCount) / float64(totalLetters)
	arPct := float64(arabicCount) / float64(totalLetters)
	cjkPct := float64(cjkCount) / float64(totalLetters)

	switch {
	case cyrPct >= 0.3:
		return "ru"
	case arPct >= 0.3:
		return "ar"
	case cjkPct >= 0.3:
		return "zh"
	case latPct >= 0.3:
		return "en"
	default:
		return "other"
	}
}
