package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/pitcher-luck/internal/logger"
)

const (
	UserAgent = "pitcher-luck-check/1.0"
	Timeout   = 30 * time.Second

	// maxCheckPages bounds a crawl of a site that links to itself through
	// endless query strings.
	maxCheckPages = 500
)

// Checker crawls a running dashboard and reports references that do not
// answer 200.
type Checker struct {
	client *http.Client
}

// NewChecker creates a checker with the default timeout.
func NewChecker() *Checker {
	return &Checker{client: &http.Client{Timeout: Timeout}}
}

// Check starts at baseURL and follows every same-host link and image.
// HTML responses are parsed for further references; anything else is only
// fetched.
func (c *Checker) Check(ctx context.Context, baseURL string) (*Report, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	report := &Report{}
	visited := map[string]bool{base.String(): true}
	type item struct {
		u    *url.URL
		from string
	}
	queue := []item{{u: base, from: ""}}

	for len(queue) > 0 && report.Pages < maxCheckPages {
		next := queue[0]
		queue = queue[1:]

		doc, status, err := c.fetch(ctx, next.u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		if next.from != "" {
			report.Refs++
		}
		if status != http.StatusOK {
			from := next.from
			if from == "" {
				from = "(start)"
			}
			report.Broken = append(report.Broken, BrokenLink{Page: from, Ref: next.u.RequestURI()})
			continue
		}
		if doc == nil {
			continue
		}
		report.Pages++

		for _, ref := range localRefs(doc) {
			rel, err := url.Parse(ref)
			if err != nil {
				continue
			}
			target := next.u.ResolveReference(rel)
			target.Fragment = ""
			if target.Host != base.Host || visited[target.String()] {
				continue
			}
			visited[target.String()] = true
			queue = append(queue, item{u: target, from: next.u.RequestURI()})
		}
	}

	logger.Debug("check complete", logger.Fields{"base": baseURL, "pages": report.Pages, "refs": report.Refs, "broken": len(report.Broken)})
	return report, report.Err()
}

// fetch GETs u. doc is nil for responses that are not HTML.
func (c *Checker) fetch(ctx context.Context, u *url.URL) (*goquery.Document, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		io.Copy(io.Discard, resp.Body) // nolint:errcheck
		return nil, resp.StatusCode, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("parsing %s: %w", u, err)
	}
	return doc, resp.StatusCode, nil
}
