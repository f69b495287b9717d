package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/km-arc/go-modular/app/contracts"
	"github.com/km-arc/go-modular/app/models"
)

// StoreSettings is read from the "tickets" config section.
type StoreSettings struct {
	// TTL of a stored ticket; zero keeps tickets forever.
	TTL time.Duration `mapstructure:"ttl"`
	// CleanupInterval between expired-ticket sweeps; zero disables them.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// CacheTicketStore keeps tickets in process memory.
type CacheTicketStore struct {
	items *cache.Cache
	ttl   time.Duration
}

// NewCacheTicketStore reads StoreSettings from the "tickets" section.
func NewCacheTicketStore(cfg contracts.ConfigService) (*CacheTicketStore, error) {
	var settings StoreSettings
	if err := cfg.GetConfig("tickets", &settings); err != nil {
		return nil, fmt.Errorf("ticket store settings: %w", err)
	}
	ttl := settings.TTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &CacheTicketStore{
		items: cache.New(ttl, settings.CleanupInterval),
		ttl:   ttl,
	}, nil
}

func (s *CacheTicketStore) ModuleName() string { return "cache-ticket-store" }

// Save inserts or replaces a ticket.
func (s *CacheTicketStore) Save(_ context.Context, t models.Ticket) error {
	if t.ID == "" {
		return fmt.Errorf("saving ticket: %w", models.ErrInvalidTicket)
	}
	s.items.Set(t.ID, t, s.ttl)
	return nil
}

func (s *CacheTicketStore) Find(_ context.Context, id string) (models.Ticket, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return models.Ticket{}, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
	}
	return v.(models.Ticket), nil
}

// List returns tickets oldest first.
func (s *CacheTicketStore) List(_ context.Context) ([]models.Ticket, error) {
	items := s.items.Items()
	out := make([]models.Ticket, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(models.Ticket))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		if a != nil && b != nil && !a.Equal(*b) {
			return a.Before(*b)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
