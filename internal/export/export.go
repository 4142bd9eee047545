package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/pitcher-luck/internal/assets"
	"github.com/pfrederiksen/pitcher-luck/internal/chart"
	"github.com/pfrederiksen/pitcher-luck/internal/dataset"
	"github.com/pfrederiksen/pitcher-luck/internal/logger"
	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	"github.com/pfrederiksen/pitcher-luck/internal/render"
	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

// IndexFile is the entry page of a bundle.
const IndexFile = "index.html"

// imageDir is the bundle directory holding logos and headshots.
const imageDir = "img"

// Options configures an export.
type Options struct {
	Dir    string
	Charts bool
}

// Result counts the files an export wrote.
type Result struct {
	Dir    string `json:"dir"`
	Pages  int    `json:"pages"`
	Charts int    `json:"charts"`
	Images int    `json:"images"`
}

// PageFile names the page of a selection, e.g. "2024-run-support-desc.html"
// or "2023-era-asc-all.html". Teams are not part of static pages.
func PageFile(sel view.Selection) string {
	dir := "desc"
	if !sel.Descending {
		dir = "asc"
	}
	name := fmt.Sprintf("%d-%s-%s", sel.Year, strings.ReplaceAll(string(sel.SortKey), "_", "-"), dir)
	if sel.ShowAll {
		name += "-all"
	}
	return name + ".html"
}

// ChartFile names the chart image of a selection.
func ChartFile(sel view.Selection) string {
	return strings.TrimSuffix(PageFile(sel), ".html") + ".png"
}

// StaticLinker links between the files of a bundle.
type StaticLinker struct {
	Images *assets.Cache
	Charts bool
}

// PageURL returns the page file of sel.
func (l StaticLinker) PageURL(sel view.Selection) string {
	return PageFile(sel)
}

// ImageURL returns the bundled image path, or "" when it is not cached.
func (l StaticLinker) ImageURL(kind assets.Kind, key string) string {
	if l.Images == nil || !l.Images.Has(kind, key) {
		return ""
	}
	return imageDir + "/" + assets.RelPath(kind, key)
}

// ChartURL returns the chart file of sel, or "" when charts are off.
func (l StaticLinker) ChartURL(sel view.Selection) string {
	if !l.Charts {
		return ""
	}
	return ChartFile(sel)
}

// Selections lists every selection a bundle pre-renders for years.
func Selections(years []int) []view.Selection {
	var sels []view.Selection
	for _, year := range years {
		for _, opt := range view.SortOptions {
			for _, desc := range []bool{true, false} {
				for _, all := range []bool{false, true} {
					sel := view.Default(year)
					sel.SortKey = opt.Key
					sel.Descending = desc
					sel.ShowAll = all
					sels = append(sels, sel)
				}
			}
		}
	}
	return sels
}

// Export renders the bundle for every season of store into opts.Dir.
// Existing files are overwritten; stale files are left alone.
func Export(ctx context.Context, store *dataset.Store, opts Options) (*Result, error) {
	if opts.Dir == "" {
		return nil, errors.New("export directory is required")
	}
	years := store.Years()
	if len(years) == 0 {
		return nil, errors.New("no seasons loaded")
	}

	start := time.Now()
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	links := StaticLinker{Images: store.Images(), Charts: opts.Charts}
	result := &Result{Dir: opts.Dir}

	for _, sel := range Selections(years) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		season, err := store.Season(sel.Year)
		if err != nil {
			return nil, err
		}
		rows := view.Apply(season, sel)

		data := render.PageData{
			Selection: sel,
			Years:     years,
			Rows:      rows,
			Links:     links,
			Chart:     opts.Charts,
		}
		if err := writePage(ctx, filepath.Join(opts.Dir, PageFile(sel)), data); err != nil {
			return nil, err
		}
		result.Pages++

		if opts.Charts && len(rows) > 0 {
			if err := writeChart(filepath.Join(opts.Dir, ChartFile(sel)), sel, rows); err != nil {
				return nil, err
			}
			result.Charts++
		}
	}

	index := view.Default(store.LatestYear())
	season, err := store.Season(index.Year)
	if err != nil {
		return nil, err
	}
	data := render.PageData{
		Selection: index,
		Years:     years,
		Rows:      view.Apply(season, index),
		Links:     links,
		Chart:     opts.Charts,
	}
	if err := writePage(ctx, filepath.Join(opts.Dir, IndexFile), data); err != nil {
		return nil, err
	}
	result.Pages++

	n, err := store.Images().WriteDir(filepath.Join(opts.Dir, imageDir))
	if err != nil {
		return nil, err
	}
	result.Images = n

	logger.RecordTiming("export", time.Since(start))
	logger.Info("export complete", logger.Fields{
		"dir":    opts.Dir,
		"pages":  result.Pages,
		"charts": result.Charts,
		"images": result.Images,
	})
	return result, nil
}

func writePage(ctx context.Context, path string, data render.PageData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	if err := render.Page(data).Render(ctx, f); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeChart(path string, sel view.Selection, rows []pitcher.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	if err := chart.Render(f, rows, chart.Options{Title: sel.String()}); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// Clean removes a bundle directory. A missing directory is not an error.
// The filesystem root, the working directory and any directory containing
// it are refused.
func Clean(dir string) error {
	if dir == "" {
		return errors.New("export directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	if abs == filepath.Dir(abs) || contains(abs, wd) {
		return fmt.Errorf("refusing to remove %s", abs)
	}

	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("removing %s: %w", abs, err)
	}
	logger.Info("export removed", logger.Fields{"dir": abs})
	return nil
}

// contains reports whether path is dir or lies beneath it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
