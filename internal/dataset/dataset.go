// Package dataset loads everything the dashboard shows, once, at startup.
//
// Load reads the game log, builds each configured season's pitcher table,
// joins that season's ERA file and reads the image directories. Seasons are
// memoised in a SeasonCache keyed by the fingerprint of their source files,
// so a restart with unchanged data skips the game log entirely. The
// resulting Store is read-only and safe for concurrent use.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pfrederiksen/pitcher-luck/internal/assets"
	"github.com/pfrederiksen/pitcher-luck/internal/config"
	"github.com/pfrederiksen/pitcher-luck/internal/gamelog"
	"github.com/pfrederiksen/pitcher-luck/internal/logger"
	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	"github.com/pfrederiksen/pitcher-luck/internal/storage"
)

// ErrUnknownYear is returned for a season that was not loaded.
var ErrUnknownYear = errors.New("season not loaded")

// SeasonCache persists built seasons. *storage.Storage implements it.
type SeasonCache interface {
	LoadSeason(ctx context.Context, year int, fingerprint string) ([]pitcher.Record, bool, error)
	SaveSeason(ctx context.Context, year int, fingerprint string, records []pitcher.Record) error
}

// Store holds the loaded seasons and images.
type Store struct {
	years   []int
	seasons map[int][]pitcher.Record
	teams   map[int][]string
	images  *assets.Cache
}

// New builds a store from already aggregated seasons. A nil images cache is
// replaced by an empty one.
func New(seasons map[int][]pitcher.Record, images *assets.Cache) *Store {
	if images == nil {
		images = assets.NewCache()
	}
	s := &Store{
		seasons: make(map[int][]pitcher.Record, len(seasons)),
		teams:   make(map[int][]string, len(seasons)),
		images:  images,
	}
	for year, records := range seasons {
		s.years = append(s.years, year)
		s.seasons[year] = records
		s.teams[year] = pitcher.Teams(records)
	}
	sort.Ints(s.years)
	return s
}

// Load reads every configured season. cache may be nil to always rebuild.
// A missing or malformed game log or ERA file is an error.
func Load(ctx context.Context, cfg *config.Config, cache SeasonCache) (*Store, error) {
	start := time.Now()
	gameLogPath := cfg.GameLogPath()

	var games []gamelog.Game
	gamesLoaded := false

	seasons := make(map[int][]pitcher.Record, len(cfg.Years))
	for _, year := range cfg.Years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		eraPath := cfg.ERAPath(year)
		fingerprint, err := storage.Fingerprint(gameLogPath, eraPath)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", year, err)
		}

		if cache != nil {
			records, ok, err := cache.LoadSeason(ctx, year, fingerprint)
			if err != nil {
				logger.Warn("season cache read failed", logger.Fields{"year": year, "error": err.Error()})
			} else if ok {
				logger.Debug("season loaded from cache", logger.Fields{"year": year, "records": len(records)})
				logger.IncrCounter("dataset.cache_hit")
				seasons[year] = records
				continue
			}
		}
		logger.IncrCounter("dataset.cache_miss")

		if !gamesLoaded {
			games, err = gamelog.ReadFile(gameLogPath)
			if err != nil {
				return nil, err
			}
			gamesLoaded = true
			logger.Info("game log loaded", logger.Fields{"path": gameLogPath, "games": len(games)})
		}

		era, err := pitcher.ReadERAFile(eraPath)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", year, err)
		}

		records := pitcher.JoinERA(pitcher.Aggregate(games, year), era)
		seasons[year] = records
		logger.Info("season built", logger.Fields{"year": year, "records": len(records)})

		if cache != nil {
			if err := cache.SaveSeason(ctx, year, fingerprint, records); err != nil {
				logger.Warn("season cache write failed", logger.Fields{"year": year, "error": err.Error()})
			}
		}
	}

	images, err := assets.Load(cfg.LogoDir(), cfg.HeadshotDir())
	if err != nil {
		return nil, err
	}

	store := New(seasons, images)
	logger.SetGauge("dataset.records", float64(store.Len()))
	logger.SetGauge("dataset.images", float64(images.Len()))
	logger.RecordTiming("dataset.load", time.Since(start))
	return store, nil
}

// Years returns the loaded seasons in ascending order.
func (s *Store) Years() []int {
	return append([]int{}, s.years...)
}

// LatestYear returns the most recent loaded season, or 0 when empty.
func (s *Store) LatestYear() int {
	if len(s.years) == 0 {
		return 0
	}
	return s.years[len(s.years)-1]
}

// Season returns a copy of the pitcher table of year.
func (s *Store) Season(year int) ([]pitcher.Record, error) {
	records, ok := s.seasons[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	return append([]pitcher.Record{}, records...), nil
}

// Teams returns the club codes of year sorted by display abbreviation.
func (s *Store) Teams(year int) []string {
	return append([]string{}, s.teams[year]...)
}

// Images returns the image cache.
func (s *Store) Images() *assets.Cache {
	return s.images
}

// Len returns the number of records across all seasons.
func (s *Store) Len() int {
	n := 0
	for _, records := range s.seasons {
		n += len(records)
	}
	return n
}
