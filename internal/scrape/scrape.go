// Package scrape pulls example input/output pairs out of a problem page.
//
// Every <pre> block whose text contains "Input:" is treated as one example:
// the input is the text between "Input:" and "Output:", the output runs from
// "Output:" up to "Explanation:" or the first blank line.
package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sempr/cph-go/internal/store"
	"golang.org/x/net/html"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxPageSize caps how much of a response body is parsed.
const maxPageSize = 8 << 20

type Client struct {
	HTTP      *http.Client
	UserAgent string
}

func New(timeout time.Duration) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: defaultUserAgent,
	}
}

// Fetch downloads url and extracts its examples.
func (c *Client) Fetch(ctx context.Context, url string) ([]store.TestCase, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html")

	slog.Info("fetching problem page", "url", url)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	cases, err := Parse(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, err
	}
	slog.Info("examples extracted", "url", url, "count", len(cases))
	return cases, nil
}

// Parse extracts examples from an HTML document.
func Parse(r io.Reader) ([]store.TestCase, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var cases []store.TestCase
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "pre" {
			var sb strings.Builder
			textContent(n, &sb)
			if tc, ok := ExtractCase(sb.String()); ok {
				tc.Index = len(cases) + 1
				cases = append(cases, tc)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return cases, nil
}

func textContent(n *html.Node, sb *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		sb.WriteString(n.Data)
	case n.Type == html.ElementNode && n.Data == "br":
		sb.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContent(c, sb)
	}
}

// ExtractCase splits the text of one example block.
func ExtractCase(text string) (store.TestCase, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	_, afterInput, ok := strings.Cut(text, "Input:")
	if !ok {
		return store.TestCase{}, false
	}
	input, afterOutput, ok := strings.Cut(afterInput, "Output:")
	if !ok {
		return store.TestCase{}, false
	}

	output := afterOutput
	if i := strings.Index(output, "Explanation:"); i >= 0 {
		output = output[:i]
	}
	output = strings.TrimSpace(output)
	if i := strings.Index(output, "\n\n"); i >= 0 {
		output = output[:i]
	}

	input, output = strings.TrimSpace(input), strings.TrimSpace(output)
	if input == "" || output == "" {
		return store.TestCase{}, false
	}
	return store.TestCase{Input: input, Expected: output}, true
}
