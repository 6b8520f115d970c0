package search

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"

	"github.com/angelmondragon/shopfront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
)

const corpusCacheKey = "corpus"

// CorpusLoader fetches the full candidate set from the data store.
type CorpusLoader interface {
	LoadCorpus(ctx context.Context) ([]Shop, error)
}

// Invalidator drops cached search state after writes that change the corpus.
type Invalidator interface {
	Invalidate()
}

// Result is the search response body.
type Result struct {
	Query    string      `json:"query"`
	Location string      `json:"location,omitempty"`
	Shops    []Candidate `json:"shops"`
}

// Service answers search queries over a briefly cached corpus.
type Service interface {
	Invalidator
	Search(ctx context.Context, query, location string) (*Result, error)
	Locations(ctx context.Context) ([]string, error)
}

type service struct {
	loader         CorpusLoader
	cache          *cache.Cache
	metrics        *metrics.SearchMetrics
	logg           *logger.Logger
	maxQueryLength int
}

// NewService wires the corpus loader and cache. A zero CorpusTTL disables caching.
func NewService(loader CorpusLoader, cfg config.SearchConfig, searchMetrics *metrics.SearchMetrics, logg *logger.Logger) (Service, error) {
	if loader == nil {
		return nil, fmt.Errorf("corpus loader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	var c *cache.Cache
	if cfg.CorpusTTL > 0 {
		c = cache.New(cfg.CorpusTTL, 2*cfg.CorpusTTL)
	}
	return &service{
		loader:         loader,
		cache:          c,
		metrics:        searchMetrics,
		logg:           logg,
		maxQueryLength: cfg.MaxQueryLength,
	}, nil
}

func (s *service) Search(ctx context.Context, query, location string) (*Result, error) {
	started := time.Now()
	query = s.clampQuery(strings.TrimSpace(query))
	location = strings.TrimSpace(location)

	result := &Result{Query: query, Location: location, Shops: []Candidate{}}
	if query == "" {
		return result, nil
	}

	corpus, err := s.corpus(ctx)
	if err != nil {
		return nil, err
	}
	result.Shops = Search(query, location, corpus)

	s.metrics.ObserveSearch(location != "", time.Since(started), len(result.Shops))
	return result, nil
}

func (s *service) Locations(ctx context.Context) ([]string, error) {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return nil, err
	}
	return Locations(corpus), nil
}

func (s *service) Invalidate() {
	if s.cache != nil {
		s.cache.Delete(corpusCacheKey)
	}
}

func (s *service) corpus(ctx context.Context) ([]Shop, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(corpusCacheKey); found {
			s.metrics.IncCache(metrics.CacheHit)
			return cached.([]Shop), nil
		}
		s.metrics.IncCache(metrics.CacheMiss)
	}

	corpus, err := s.loader.LoadCorpus(ctx)
	if err != nil {
		s.logg.Error(ctx, "search.corpus_load_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load search corpus")
	}
	if s.cache != nil {
		s.cache.Set(corpusCacheKey, corpus, cache.DefaultExpiration)
	}
	return corpus, nil
}

func (s *service) clampQuery(query string) string {
	if s.maxQueryLength <= 0 || utf8.RuneCountInString(query) <= s.maxQueryLength {
		return query
	}
	return strings.TrimSpace(string([]rune(query)[:s.maxQueryLength]))
}
