// Package render turns a view into HTML.
//
// Components are written in page.templ and table.templ; the matching
// *_templ.go files are generated with `templ generate` and committed. The
// live server hands components to templ.Handler and the exporter renders
// them straight into files. Every
// link and image URL goes through a Linker: the live app links with query
// strings while a static bundle links to pre-rendered file names.
//
// Cell renderers (the ERA colour box, the win/loss strip, the luck bar)
// produce self-contained markup with inline styles and SVG, so a page needs
// no script and no external stylesheet.
package render
