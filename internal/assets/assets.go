// Package assets keeps the team logos and pitcher headshots in memory.
//
// Images are read once at startup from the data directory and then served
// by the dashboard or copied into an exported bundle. A missing image
// directory is not fatal: rows simply render without pictures.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pfrederiksen/pitcher-luck/internal/logger"
)

// Kind groups images by what they show.
type Kind string

const (
	Logo     Kind = "logos"
	Headshot Kind = "headshots"
)

const ext = ".png"

// Cache holds PNG images by kind and key (file name without extension).
type Cache struct {
	images map[Kind]map[string][]byte
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{images: map[Kind]map[string][]byte{
		Logo:     {},
		Headshot: {},
	}}
}

// Load reads every PNG in logoDir and headshotDir.
func Load(logoDir, headshotDir string) (*Cache, error) {
	c := NewCache()
	for kind, dir := range map[Kind]string{Logo: logoDir, Headshot: headshotDir} {
		n, err := c.loadDir(kind, dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("images loaded", logger.Fields{"kind": string(kind), "dir": dir, "count": n})
	}
	return c, nil
}

func (c *Cache) loadDir(kind Kind, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("image directory missing", logger.Fields{"kind": string(kind), "dir": dir})
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", dir, err)
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, fmt.Errorf("reading image: %w", err)
		}
		c.Put(kind, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), data)
		n++
	}
	return n, nil
}

// Put stores an image.
func (c *Cache) Put(kind Kind, key string, data []byte) {
	if c.images[kind] == nil {
		c.images[kind] = map[string][]byte{}
	}
	c.images[kind][key] = data
}

// Get returns the image bytes.
func (c *Cache) Get(kind Kind, key string) ([]byte, bool) {
	data, ok := c.images[kind][key]
	return data, ok
}

// Has reports whether an image is cached.
func (c *Cache) Has(kind Kind, key string) bool {
	_, ok := c.images[kind][key]
	return ok
}

// Len returns the number of cached images of every kind.
func (c *Cache) Len() int {
	n := 0
	for _, m := range c.images {
		n += len(m)
	}
	return n
}

// RelPath returns the slash-separated path of an image inside a bundle or
// below the image route, e.g. "logos/NYA.png".
func RelPath(kind Kind, key string) string {
	return path.Join(string(kind), key+ext)
}

// ServeHTTP serves "{kind}/{key}.png" relative to the mount point, so the
// cache is mounted with http.StripPrefix.
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dir, file := path.Split(strings.TrimPrefix(r.URL.Path, "/"))
	kind := Kind(strings.TrimSuffix(dir, "/"))
	if !strings.HasSuffix(file, ext) {
		http.NotFound(w, r)
		return
	}

	data, ok := c.Get(kind, strings.TrimSuffix(file, ext))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data) // nolint:errcheck
}

// WriteDir writes every image below dir as {kind}/{key}.png and returns the
// number of files written.
func (c *Cache) WriteDir(dir string) (int, error) {
	n := 0
	for _, kind := range []Kind{Logo, Headshot} {
		keys := make([]string, 0, len(c.images[kind]))
		for k := range c.images[kind] {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		if len(keys) == 0 {
			continue
		}
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0755); err != nil {
			return n, fmt.Errorf("creating image directory: %w", err)
		}
		for _, k := range keys {
			target := filepath.Join(dir, filepath.FromSlash(RelPath(kind, k)))
			if err := os.WriteFile(target, c.images[kind][k], 0644); err != nil {
				return n, fmt.Errorf("writing image: %w", err)
			}
			n++
		}
	}
	return n, nil
}
