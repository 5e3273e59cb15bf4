package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"umrahcrm/config"
	otelMocks "umrahcrm/infras/otel/mocks"
	"umrahcrm/shared/cache"
	cacheMocks "umrahcrm/shared/cache/mocks"
	"umrahcrm/shared/constant"
	"umrahcrm/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const limiterKey = "limiter:203.0.113.7:umrah-test"

func limited(t *testing.T, enable bool, setup func(c *cacheMocks.MockRedisCache)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	if setup != nil {
		setup(redisCache)
	}

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 3
	cfg.App.RateLimiter.WindowSeconds = 60

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache)

	return mw.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func limiterRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	req.Header.Set(constant.RequestHeaderForwardedFor, "203.0.113.7, 10.0.0.1")
	req.Header.Set(constant.RequestHeaderUserAgent, "umrah-test")

	return req
}

func stored(count int) func(_, _, value any) error {
	return func(_, _, value any) error {
		*(value.(*int)) = count

		return nil
	}
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		enable        bool
		setup         func(c *cacheMocks.MockRedisCache)
		wantCode      int
		wantRemaining string
	}{
		{
			name:     "disabled",
			enable:   false,
			wantCode: http.StatusOK,
		},
		{
			name:   "first request opens the window",
			enable: true,
			setup: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), limiterKey, gomock.Any()).Return(cache.Nil)
				c.EXPECT().Save(gomock.Any(), limiterKey, 1, 60).Return(nil)
			},
			wantCode:      http.StatusOK,
			wantRemaining: "2",
		},
		{
			name:   "last allowed request",
			enable: true,
			setup: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), limiterKey, gomock.Any()).DoAndReturn(stored(2))
				c.EXPECT().Save(gomock.Any(), limiterKey, 3, 60).Return(nil)
			},
			wantCode:      http.StatusOK,
			wantRemaining: "0",
		},
		{
			name:   "over the limit",
			enable: true,
			setup: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), limiterKey, gomock.Any()).DoAndReturn(stored(3))
			},
			wantCode: http.StatusTooManyRequests,
		},
		{
			name:   "cache outage lets the request through",
			enable: true,
			setup: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), limiterKey, gomock.Any()).Return(errors.New("connection refused"))
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			limited(t, tt.enable, tt.setup).ServeHTTP(rec, limiterRequest())

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}
