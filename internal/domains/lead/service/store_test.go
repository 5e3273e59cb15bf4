package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"umrahcrm/config"
	"umrahcrm/infras/otel/mocks"
	s3Mocks "umrahcrm/infras/s3/mocks"
	"umrahcrm/internal/domains/lead/model"
	"umrahcrm/internal/domains/lead/model/dto"
	"umrahcrm/internal/domains/lead/repository"
	"umrahcrm/internal/domains/lead/service"
	"umrahcrm/internal/events"
	"umrahcrm/shared/cache"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mapCache keeps JSON values in memory the way the redis cache does.
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}}
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

func (c *mapCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// stallingLeads holds its first GetAll after reading until resume is closed.
type stallingLeads struct {
	repository.Lead

	once   sync.Once
	read   chan struct{}
	resume chan struct{}
}

func (s *stallingLeads) GetAll(ctx context.Context) ([]model.Lead, error) {
	leads, err := s.Lead.GetAll(ctx)

	s.once.Do(func() {
		close(s.read)
		<-s.resume
	})

	return leads, err
}

func newStoreService(t *testing.T, repo repository.Lead, c cache.RedisCache) (service.Lead, *s3Mocks.MockS3) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	s3 := s3Mocks.NewMockS3(gomock.NewController(t))

	return service.New(repo, cfg, c, mocks.NewOtel(), s3, events.NewPublisher(cfg, nil)), s3
}

func listedIDs(res dto.GetLeadsResponse) []string {
	ids := make([]string, len(res.Leads))
	for i, lead := range res.Leads {
		ids[i] = lead.ID
	}

	return ids
}

func TestLeadService_DeleteClearsCachedList(t *testing.T) {
	ctx := ctxWithUser()
	svc, _ := newStoreService(t, repository.New(store.NewMemory(), mocks.NewOtel()), newMapCache())

	res, err := svc.GetAll(ctx, gDto.QueryParams{}, dto.LeadFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, listedIDs(res))

	require.NoError(t, svc.Delete(ctx, "1"))

	res, err = svc.GetAll(ctx, gDto.QueryParams{}, dto.LeadFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, listedIDs(res))

	_, err = svc.Get(ctx, "1")
	assertCode(t, err, http.StatusNotFound)
}

func TestLeadService_FillStartedBeforeDeleteIsNotServed(t *testing.T) {
	ctx := ctxWithUser()
	c := newMapCache()
	repo := &stallingLeads{
		Lead:   repository.New(store.NewMemory(), mocks.NewOtel()),
		read:   make(chan struct{}),
		resume: make(chan struct{}),
	}
	svc, _ := newStoreService(t, repo, c)

	stale := make(chan dto.GetLeadsResponse, 1)

	go func() {
		res, _ := svc.GetAll(ctx, gDto.QueryParams{}, dto.LeadFilter{})
		stale <- res
	}()

	<-repo.read
	require.NoError(t, svc.Delete(ctx, "1"))
	close(repo.resume)

	assert.Contains(t, listedIDs(<-stale), "1")
	assert.Equal(t, 1, c.Len(), "the slow read still fills its own generation")

	res, err := svc.GetAll(ctx, gDto.QueryParams{}, dto.LeadFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, listedIDs(res))
}

func TestLeadService_CachedLeadExpiresOnRead(t *testing.T) {
	ctx := ctxWithUser()
	repo := repository.New(store.NewMemory(), mocks.NewOtel())
	svc, _ := newStoreService(t, repo, newMapCache())

	deadline := time.Now().Add(200 * time.Millisecond).UnixMilli()

	_, err := repo.Update(ctx, model.DemoLeadID, model.Patch{TimerExpiry: &deadline})
	require.NoError(t, err)

	res, err := svc.Get(ctx, model.DemoLeadID)
	require.NoError(t, err)
	assert.False(t, res.Expired)

	require.Eventually(t, func() bool { return time.Now().UnixMilli() > deadline }, 2*time.Second, 5*time.Millisecond)

	res, err = svc.Get(ctx, model.DemoLeadID)
	require.NoError(t, err)
	assert.True(t, res.Expired)

	list, err := svc.GetAll(ctx, gDto.QueryParams{}, dto.LeadFilter{Search: "QT-9999"})
	require.NoError(t, err)
	require.Len(t, list.Leads, 1)
	assert.True(t, list.Leads[0].Expired)
}

func TestLeadService_VoucherFromEmptyStore(t *testing.T) {
	ctx := ctxWithUser()
	svc, s3 := newStoreService(t, repository.New(store.NewMemory(), mocks.NewOtel()), newMapCache())

	leads, err := svc.GetAll(ctx, gDto.QueryParams{}, dto.LeadFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3"}, listedIDs(leads))

	demo := leads.Leads[2]
	assert.Equal(t, "QT-9999", demo.QuotationNumber)
	assert.Equal(t, "Package2026", demo.VoucherCode)

	_, err = svc.AcceptVoucher(ctx, dto.AcceptVoucherRequest{}, demo.ID)
	assertCode(t, err, http.StatusBadRequest)
	assert.Equal(t, service.MsgPaymentProofRequired, err.Error())

	current, err := svc.Get(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoucherPending, current.VoucherStatus)

	s3.EXPECT().Upload(gomock.Any(), "payment-proofs", gomock.Any(), gomock.Any()).Return("https://cdn.example.com/payment-proofs/proof.png", nil)

	res, err := svc.AcceptVoucher(ctx, dto.AcceptVoucherRequest{Proof: &gDto.File{}}, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoucherAccepted, res.VoucherStatus)
	assert.Equal(t, model.PaymentPaid, res.PaymentStatus)
	assert.Equal(t, model.StatusInProgress, res.Status)

	current, err = svc.Get(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoucherAccepted, current.VoucherStatus)
	assert.Equal(t, "https://cdn.example.com/payment-proofs/proof.png", current.PaymentProofURL)
}
