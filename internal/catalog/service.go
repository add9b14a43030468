// Package catalog serves the product catalog: home feed, product detail, and
// daily-rotating recommendations.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"lookbook/internal/docstore"
	"lookbook/internal/sentinel"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// Service reads products from the document store.
type Service struct {
	docs   docstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// ServiceOption configures Service.
type ServiceOption func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs the catalog service.
func NewService(docs docstore.Store, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{docs: docs, logger: logger, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns the full catalog shuffled per fetch, matching the home feed's
// fresh ordering on every load.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(s.now().UnixNano()))
	rng.Shuffle(len(products), func(i, j int) {
		products[i], products[j] = products[j], products[i]
	})
	return products, nil
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id domain.ProductID) (*Product, error) {
	doc, err := s.docs.Get(ctx, productsCollection, string(id))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "product fetch failed")
	}
	return fromDocument(string(id), doc)
}

// Recommendations returns up to limit products in an ordering that rotates
// once per calendar day: stable all day, fresh after midnight, the behavior
// the client's countdown-to-midnight reshuffle approximated.
func (s *Service) Recommendations(ctx context.Context, limit int) ([]*Product, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	day := s.now().UTC().Truncate(24 * time.Hour).Unix()
	rng := rand.New(rand.NewSource(day))
	rng.Shuffle(len(products), func(i, j int) {
		products[i], products[j] = products[j], products[i]
	})

	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products, nil
}

// load reads and validates the whole collection. Documents that fail
// validation are skipped with a warning rather than failing the feed.
func (s *Service) load(ctx context.Context) ([]*Product, error) {
	docs, err := s.docs.List(ctx, productsCollection)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "product list failed")
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products := make([]*Product, 0, len(docs))
	for _, id := range ids {
		p, err := fromDocument(id, docs[id])
		if err != nil {
			s.logger.Warn("skipping invalid product document", "product_id", id, "error", err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}
