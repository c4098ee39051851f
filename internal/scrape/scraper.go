package scrape

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"retailkpi/internal/config"
	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

// DefaultPageSize is the number of results per search page.
const DefaultPageSize = 48

// Fetcher retrieves one page body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Scraper walks the result pages of a listing search.
type Scraper struct {
	Fetcher  Fetcher
	PageSize int
	Logger   *zap.Logger
}

// Result holds the outcome of a scrape run.
type Result struct {
	Listings  []models.Listing
	Summaries []models.ListingSummary
	// Errors records the collection error of each kind that failed.
	Errors       map[models.PropertyKind]error
	UsedFallback bool
}

// NewScraper builds a scraper and its HTTP client from cfg.
func NewScraper(cfg models.ScrapeConf, logger *zap.Logger) (*Scraper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	minDelay, maxDelay, timeout, err := config.ScrapeDurations(cfg)
	if err != nil {
		return nil, err
	}

	client := NewClient(timeout, logger)
	client.MinDelay = minDelay
	client.MaxDelay = maxDelay
	client.Robots = cfg.RespectRobots
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}
	if cfg.MaxRetries >= 0 {
		client.Retry.MaxRetries = cfg.MaxRetries
	}

	return &Scraper{Fetcher: client, PageSize: cfg.PageSize, Logger: logger}, nil
}

// PageURL returns the address of page (1-based) of a search.
func PageURL(baseURL string, page, pageSize int) string {
	if page <= 1 {
		return baseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return fmt.Sprintf("%s_Desde_%d", baseURL, (page-1)*pageSize+1)
}

// Collect fetches up to maxPages pages of baseURL. It stops at the first
// page without results. A failure after some pages were read returns the
// listings gathered so far together with the error.
func (s *Scraper) Collect(ctx context.Context, kind models.PropertyKind, baseURL string, maxPages int) ([]models.Listing, error) {
	logger := s.logger().With(zap.String("kind", string(kind)))
	var all []models.Listing

	for page := 1; page <= maxPages; page++ {
		url := PageURL(baseURL, page, s.PageSize)
		logger.Debug("fetching page", zap.Int("page", page), zap.String("url", url))

		body, err := s.Fetcher.Get(ctx, url)
		if err != nil {
			return all, err
		}

		listings, items, err := ParseListings(bytes.NewReader(body))
		if err != nil {
			return all, err
		}
		if items == 0 {
			if LooksBlocked(body) {
				return all, apperrors.New(apperrors.ErrCodeBlocked, "anti-bot challenge served instead of results").
					WithContext("url", url).
					WithContext("page", page)
			}
			logger.Info("no more results", zap.Int("page", page))
			break
		}

		for i := range listings {
			listings[i].Kind = kind
			listings[i].Page = page
		}
		all = append(all, listings...)
		logger.Info("page scraped",
			zap.Int("page", page),
			zap.Int("items", items),
			zap.Int("listings", len(listings)))
	}
	return all, nil
}

// Run scrapes houses and apartments and summarizes both. When demo fallback
// is enabled and either kind has fewer than cfg.MinListings listings, both
// kinds are replaced by seeded sample data.
func (s *Scraper) Run(ctx context.Context, cfg models.ScrapeConf) (*Result, error) {
	started := time.Now()
	res := &Result{Errors: make(map[models.PropertyKind]error)}

	targets := []struct {
		kind models.PropertyKind
		url  string
	}{
		{models.KindHouse, cfg.HousesURL},
		{models.KindApartment, cfg.ApartmentsURL},
	}

	counts := make(map[models.PropertyKind]int)
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		listings, err := s.Collect(ctx, t.kind, t.url, cfg.MaxPages)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			res.Errors[t.kind] = err
			s.logger().Warn("collection stopped",
				zap.String("kind", string(t.kind)),
				zap.Int("listings", len(listings)),
				zap.Error(err))
		}
		counts[t.kind] = len(listings)
		res.Listings = append(res.Listings, listings...)
	}

	minListings := cfg.MinListings
	if minListings <= 0 {
		minListings = 5
	}
	short := counts[models.KindHouse] < minListings || counts[models.KindApartment] < minListings

	if short && cfg.DemoFallback {
		seed := cfg.FallbackSeed
		if seed == 0 {
			seed = DefaultFallbackSeed
		}
		s.logger().Warn("too few listings, using sample data",
			zap.Int("houses", counts[models.KindHouse]),
			zap.Int("apartments", counts[models.KindApartment]),
			zap.Int64("seed", seed))
		res.Listings = SampleListings(seed)
		res.UsedFallback = true
	} else if len(res.Listings) == 0 {
		err := apperrors.New(apperrors.ErrCodeNoListings, "no listings were collected").
			WithSuggestions(
				"Check the scrape URLs in your configuration",
				"Enable scrape.demo_fallback to continue with sample data",
			)
		for kind, cause := range res.Errors {
			err.WithContext(string(kind), cause.Error())
		}
		return res, err
	}

	for _, t := range targets {
		res.Summaries = append(res.Summaries, Summarize(t.kind, res.Listings, cfg.SkewRatio))
	}

	s.logger().Info("scrape finished",
		zap.Int("listings", len(res.Listings)),
		zap.Bool("fallback", res.UsedFallback),
		zap.Duration("elapsed", time.Since(started)))
	return res, nil
}

func (s *Scraper) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
