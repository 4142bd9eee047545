package render

import (
	"github.com/pfrederiksen/pitcher-luck/internal/assets"
	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

// Linker resolves the URLs a page links to. An empty string means the
// target does not exist and nothing is linked.
type Linker interface {
	PageURL(sel view.Selection) string
	ImageURL(kind assets.Kind, key string) string
	ChartURL(sel view.Selection) string
}

// LiveLinker links into the running server.
type LiveLinker struct {
	Images *assets.Cache
}

// PageURL returns the root page with the selection as query parameters.
func (l LiveLinker) PageURL(sel view.Selection) string {
	return "/?" + sel.Query().Encode()
}

// ImageURL returns the image route, or "" when the image is not cached.
func (l LiveLinker) ImageURL(kind assets.Kind, key string) string {
	if l.Images == nil || !l.Images.Has(kind, key) {
		return ""
	}
	return "/img/" + assets.RelPath(kind, key)
}

// ChartURL returns the chart route for the selection.
func (l LiveLinker) ChartURL(sel view.Selection) string {
	return "/chart.png?" + sel.Query().Encode()
}
