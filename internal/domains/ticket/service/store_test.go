package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"umrahcrm/config"
	"umrahcrm/infras/otel/mocks"
	leadRepository "umrahcrm/internal/domains/lead/repository"
	"umrahcrm/internal/domains/ticket/model"
	"umrahcrm/internal/domains/ticket/model/dto"
	"umrahcrm/internal/domains/ticket/repository"
	"umrahcrm/internal/domains/ticket/service"
	"umrahcrm/internal/events"
	"umrahcrm/shared/cache"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache keeps JSON values in memory the way the redis cache does.
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *mapCache) Save(_ context.Context, key string, value any, _ int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = data

	return nil
}

func (c *mapCache) Get(_ context.Context, key string, value any) error {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()

	if !ok {
		return cache.Nil
	}

	return json.Unmarshal(data, value)
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)

	return nil
}

func (c *mapCache) Clear(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}

	return nil
}

type storeFixture struct {
	leads   leadRepository.Lead
	tickets repository.Ticket
	svc     service.Ticket
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	s := store.NewMemory()
	otel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := &storeFixture{
		leads:   leadRepository.New(s, otel),
		tickets: repository.New(s, otel),
	}

	f.svc = service.New(f.tickets, f.leads, cfg, &mapCache{items: map[string][]byte{}}, otel, events.NewPublisher(cfg, nil))

	return f
}

func TestTicketService_TicketOutlivesItsLead(t *testing.T) {
	f := newStoreFixture(t)
	ctx := ctxWithUser()

	require.NoError(t, f.leads.Delete(ctx, "1"))

	_, err := f.leads.Get(ctx, "1")
	require.ErrorIs(t, err, leadRepository.ErrNotFound)

	stored, err := f.tickets.Get(ctx, model.SeedID)
	require.NoError(t, err)
	assert.Equal(t, "1", stored.LeadID)

	res, err := f.svc.Get(ctx, model.SeedID)
	require.NoError(t, err)
	assert.Equal(t, "1", res.LeadID)
	assert.Equal(t, "Ahmad Khan", res.LeadName)

	byLead, err := f.svc.GetByLead(ctx, "1")
	require.NoError(t, err)
	require.Len(t, byLead, 1)
	assert.Equal(t, "Ahmad Khan", byLead[0].LeadName)

	list, err := f.svc.GetAll(ctx, gDto.QueryParams{}, dto.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, list.Tickets, 1)
	assert.Equal(t, model.SeedID, list.Tickets[0].ID)
}

func TestTicketService_UpdateIsVisibleToTheNextRead(t *testing.T) {
	f := newStoreFixture(t)
	ctx := ctxWithUser()

	before, err := f.svc.Get(ctx, model.SeedID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, before.Status)

	_, err = f.svc.GetAll(ctx, gDto.QueryParams{}, dto.TicketFilter{})
	require.NoError(t, err)

	status := model.StatusResolved

	_, err = f.svc.Update(ctx, dto.UpdateTicketRequest{Status: &status}, model.SeedID)
	require.NoError(t, err)

	after, err := f.svc.Get(ctx, model.SeedID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, after.Status)

	list, err := f.svc.GetAll(ctx, gDto.QueryParams{}, dto.TicketFilter{Status: model.StatusOpen})
	require.NoError(t, err)
	assert.Empty(t, list.Tickets)
}
