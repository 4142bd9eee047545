// Package storage provides the SQLite season cache.
//
// Aggregating a season means reading the whole game log, so the dashboard
// keeps each season's records in seasons.db together with a fingerprint of
// the source files. A season is served from the cache only while the
// fingerprint still matches. The default location is ~/.cache/pitcher-luck/.
package storage
