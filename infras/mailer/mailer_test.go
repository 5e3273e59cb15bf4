package mailer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"umrahcrm/config"
	"umrahcrm/infras/mailer"
	"umrahcrm/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken"`
	TemplateParams map[string]string `json:"template_params"`
}

func newConfig(endpoint string) *config.Config {
	cfg := &config.Config{}
	cfg.External.EmailJS.Endpoint = endpoint
	cfg.External.EmailJS.ServiceID = "service_test"
	cfg.External.EmailJS.TemplateID = "template_test"
	cfg.External.EmailJS.PublicKey = "public"
	cfg.External.EmailJS.PrivateKey = "private"
	cfg.External.EmailJS.AdminEmail = "admin@example.com"
	cfg.External.EmailJS.TimeoutSec = 2

	return cfg
}

func TestEmailJSMailer_Send(t *testing.T) {
	var got sentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	m := mailer.New(newConfig(server.URL), mocks.NewOtel())

	mail := mailer.Welcome(mailer.Recipient{Name: "Ahmad", Email: "ahmad@example.com"}, "s3cr3t12", "https://crm.example.com/login")
	require.NoError(t, m.Send(context.Background(), mail))

	assert.Equal(t, "service_test", got.ServiceID)
	assert.Equal(t, "template_test", got.TemplateID)
	assert.Equal(t, "public", got.UserID)
	assert.Equal(t, "private", got.AccessToken)
	assert.Equal(t, "Ahmad", got.TemplateParams["to_name"])
	assert.Equal(t, "ahmad@example.com", got.TemplateParams["recipient_email"])
	assert.Equal(t, "ahmad@example.com", got.TemplateParams["reply_to"])
	assert.Equal(t, "admin@example.com", got.TemplateParams["admin_email"])
	assert.Equal(t, "https://crm.example.com/login", got.TemplateParams["action_link"])
	assert.Contains(t, got.TemplateParams["message"], "Password: s3cr3t12")
}

func TestEmailJSMailer_SendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The template ID is invalid"))
	}))
	defer server.Close()

	m := mailer.New(newConfig(server.URL), mocks.NewOtel())

	err := m.Send(context.Background(), mailer.Notice("admin@example.com", "subject", "message"))

	assert.ErrorIs(t, err, mailer.ErrRejected)
	assert.Contains(t, err.Error(), "template ID is invalid")
}

func TestNew_LogModeWithoutServiceID(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.EmailJS.AdminEmail = "admin@example.com"

	m := mailer.New(cfg, mocks.NewOtel())

	assert.NoError(t, m.Send(context.Background(), mailer.Notice("admin@example.com", "subject", "message")))
	assert.Equal(t, "admin@example.com", m.AdminEmail())
}

func TestCompleted(t *testing.T) {
	mails := mailer.Completed("admin@example.com", mailer.Recipient{Name: "Sarah", Email: "sarah@example.com"})

	require.Len(t, mails, 2)
	assert.Equal(t, "admin@example.com", mails[0].ToEmail)
	assert.Equal(t, "Application Completed: Sarah", mails[0].Subject)
	assert.Equal(t, "sarah@example.com", mails[1].ToEmail)
}
