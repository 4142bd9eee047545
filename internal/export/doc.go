// Package export writes the dashboard as a static site and checks it.
//
// A static bundle has no server to recompute views, so Export pre-renders
// one page per combination of season, sort key, direction and row limit,
// and links the pages to each other. The team filter needs a server and is
// left out of the bundle. Verify parses every exported page and fails on
// links or images that point at missing files; Check does the same over
// HTTP against a running server.
package export
