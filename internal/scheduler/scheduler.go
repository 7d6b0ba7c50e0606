// Package scheduler periodically retries metadata enrichment for books whose
// author is still the placeholder value.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookstore/internal/entities"
)

// BookLister returns books still carrying the placeholder author.
type BookLister interface {
	ListMissingAuthor() ([]entities.Book, error)
}

// Refresher retries the external lookup for a single book.
type Refresher interface {
	RefreshAuthor(ctx context.Context, book *entities.Book) (bool, error)
}

type Scheduler struct {
	cron     *cron.Cron
	store    BookLister
	enricher Refresher
}

func New(store BookLister, enricher Refresher) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		store:    store,
		enricher: enricher,
	}
}

// Start registers the sweep under the given cron schedule and starts the
// scheduler.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return fmt.Errorf("invalid enrichment schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	log.Printf("Enrichment sweep scheduled: %s", schedule)
	return nil
}

// Stop stops the scheduler, waiting for a running sweep to finish or the
// context to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
}

// Sweep retries the lookup once for every book missing an author. A book
// that still yields nothing is left for the next sweep.
func (s *Scheduler) Sweep() {
	pending, err := s.store.ListMissingAuthor()
	if err != nil {
		log.Printf("Enrichment sweep: listing books failed: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Printf("Enrichment sweep: retrying lookup for %d books", len(pending))
	updated := 0
	for i := range pending {
		ok, err := s.enricher.RefreshAuthor(context.Background(), &pending[i])
		if err != nil {
			log.Printf("Enrichment sweep: %q: %v", pending[i].Title, err)
			continue
		}
		if ok {
			updated++
		}
	}
	log.Printf("Enrichment sweep finished: %d of %d books updated", updated, len(pending))
}
