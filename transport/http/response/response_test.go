package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"umrahcrm/shared/constant"
	"umrahcrm/shared/failure"
	"umrahcrm/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "failure keeps its status",
			err:      failure.NotFound("lead not found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"lead not found"}`,
		},
		{
			name:     "wrapped failure",
			err:      fmt.Errorf("accept voucher: %w", failure.Conflict("voucher already decided")),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"accept voucher: voucher already decided"}`,
		},
		{
			name:     "internal failure is shown",
			err:      failure.InternalError(errors.New("could not issue tokens")),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"could not issue tokens"}`,
		},
		{
			name:     "plain error is masked",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "TK-1001"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"TK-1001"}}`, rec.Body.String())
}

func TestCannedMessages(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		wantCode int
		wantMsg  string
	}{
		{name: "limit", write: response.WithRequestLimitExceeded, wantCode: http.StatusTooManyRequests, wantMsg: constant.ResponseErrorRequestLimitExceeded},
		{name: "shutdown", write: response.WithPreparingShutdown, wantCode: http.StatusServiceUnavailable, wantMsg: constant.ResponseErrorPrepareShutdown},
		{name: "unhealthy", write: response.WithUnhealthy, wantCode: http.StatusServiceUnavailable, wantMsg: constant.ResponseErrorUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			tt.write(rec)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tt.wantMsg), rec.Body.String())
		})
	}
}
