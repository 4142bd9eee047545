package export

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrBrokenLinks is returned when a page references a missing target.
var ErrBrokenLinks = errors.New("broken links")

// BrokenLink is a reference whose target does not exist.
type BrokenLink struct {
	Page string `json:"page"`
	Ref  string `json:"ref"`
}

// Report summarises a link check.
type Report struct {
	Pages  int          `json:"pages"`
	Refs   int          `json:"refs"`
	Broken []BrokenLink `json:"broken,omitempty"`
}

// Err returns nil for a clean report, or ErrBrokenLinks naming the first
// broken references.
func (r *Report) Err() error {
	if len(r.Broken) == 0 {
		return nil
	}
	var parts []string
	for i, b := range r.Broken {
		if i == 5 {
			parts = append(parts, fmt.Sprintf("and %d more", len(r.Broken)-i))
			break
		}
		parts = append(parts, b.Page+" -> "+b.Ref)
	}
	return fmt.Errorf("%w: %s", ErrBrokenLinks, strings.Join(parts, ", "))
}

// localRefs returns the same-site references of a page: link targets,
// images and stylesheets, without query or fragment. External and
// fragment-only references are skipped.
func localRefs(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || strings.HasPrefix(ref, "#") {
			return
		}
		u, err := url.Parse(ref)
		if err != nil || u.Scheme != "" || u.Host != "" {
			return
		}
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	doc.Find("a[href], link[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		add(href)
	})
	doc.Find("img[src], script[src]").Each(func(i int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add(src)
	})
	return refs
}

// Verify parses every HTML page in dir and checks that each local link and
// image points at an existing file. The bundle must have an index page.
func Verify(dir string) (*Report, error) {
	if _, err := os.Stat(filepath.Join(dir, IndexFile)); err != nil {
		return nil, fmt.Errorf("bundle has no %s: %w", IndexFile, err)
	}

	var pages []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".html") {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(pages)

	report := &Report{}
	for _, page := range pages {
		f, err := os.Open(page)
		if err != nil {
			return nil, fmt.Errorf("opening page: %w", err)
		}
		doc, err := goquery.NewDocumentFromReader(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		report.Pages++

		rel, _ := filepath.Rel(dir, page)
		pageDir := path.Dir(filepath.ToSlash(rel))
		for _, ref := range localRefs(doc) {
			report.Refs++
			u, _ := url.Parse(ref)
			target := u.Path
			if !strings.HasPrefix(target, "/") {
				target = path.Join(pageDir, target)
			}
			target = strings.TrimPrefix(path.Clean("/"+target), "/")
			if target == "" {
				target = IndexFile
			}
			info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(target)))
			if err == nil && info.IsDir() {
				_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(target), IndexFile))
			}
			if err != nil {
				report.Broken = append(report.Broken, BrokenLink{Page: filepath.ToSlash(rel), Ref: ref})
			}
		}
	}

	return report, report.Err()
}
