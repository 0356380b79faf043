package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// FetchResult es el contenido crudo y limpio de una pagina de perfil.
type FetchResult struct {
	RawHTML     string
	CleanedText string
	Title       string
}

// Fetcher es la frontera de transporte web. Una falla aqui es la unica que
// lleva una fuente al estado failed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// HTTPFetcher implementa Fetcher con un cliente HTTP plano. Paginas
// renderizadas por JS quedan para un transporte headless detras de la misma
// interfaz.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

const (
	maxStoredHTML  = 50000
	maxCleanedText = 15000
)

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return FetchResult{}, fmt.Errorf("fetch %s: status=%d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return FetchResult{}, fmt.Errorf("read body: %w", err)
	}

	html := string(body)
	title, text := extractContent(html, rawURL)
	return FetchResult{
		RawHTML:     truncate(html, maxStoredHTML),
		CleanedText: truncate(text, maxCleanedText),
		Title:       title,
	}, nil
}

// extractContent saca el titulo y el texto principal con go-readability y
// cae a goquery cuando la pagina no tiene un articulo identificable.
func extractContent(rawHTML, rawURL string) (title, text string) {
	pageURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return strings.TrimSpace(article.Title), normalizeLines(article.TextContent)
	}
	return extractWithGoquery(rawHTML)
}

// extractWithGoquery limpia la pagina con un parser HTML real: perfiles
// cortos o sin estructura de articulo que readability rechaza.
func extractWithGoquery(rawHTML string) (title, text string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", ""
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, noscript, iframe, svg, nav, footer, header, aside").Remove()

	content := doc.Find("body")
	if content.Length() == 0 {
		return title, normalizeLines(doc.Text())
	}
	return title, normalizeLines(content.Text())
}

func normalizeLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

// truncate corta en limite de runa para no partir UTF-8 multibyte.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
