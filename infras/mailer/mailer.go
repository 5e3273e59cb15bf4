package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"umrahcrm/config"
	"umrahcrm/infras/otel"
	"umrahcrm/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	otelAttrTemplate = "template_id"
	otelAttrSubject  = "subject"
	maxErrorBody     = 512
)

var ErrRejected = errors.New("email provider rejected the request")

// Mail is one transactional message rendered by the configured template.
type Mail struct {
	ToName     string
	ToEmail    string
	Subject    string
	Message    string
	ActionLink string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
	// AdminEmail is the address that receives review notifications.
	AdminEmail() string
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

type emailJSMailer struct {
	cfg    *config.Config
	client *http.Client
	otel   otel.Otel
}

// New sends through EmailJS when a service id is configured and only logs otherwise.
func New(cfg *config.Config, otel otel.Otel) Mailer {
	if cfg.External.EmailJS.ServiceID == "" {
		log.Warn().Msg("EmailJS is not configured, emails will only be logged")

		return logMailer{adminEmail: cfg.External.EmailJS.AdminEmail}
	}

	return &emailJSMailer{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.External.EmailJS.TimeoutSec) * time.Second},
		otel:   otel,
	}
}

func (m *emailJSMailer) AdminEmail() string {
	return m.cfg.External.EmailJS.AdminEmail
}

func (m *emailJSMailer) Send(ctx context.Context, mail Mail) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMailerScopeName, constant.OtelMailerScopeName+".Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	emailJS := m.cfg.External.EmailJS

	scope.SetAttributes(map[string]any{
		otelAttrTemplate: emailJS.TemplateID,
		otelAttrSubject:  mail.Subject,
	})

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      emailJS.ServiceID,
		TemplateID:     emailJS.TemplateID,
		UserID:         emailJS.PublicKey,
		AccessToken:    emailJS.PrivateKey,
		TemplateParams: m.params(mail),
	})
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, emailJS.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, detail)
	}

	log.Info().Str("to", mail.ToEmail).Str("subject", mail.Subject).Msg("email sent")

	return nil
}

// params duplicates the recipient under the names templates commonly bind their "To" field to.
func (m *emailJSMailer) params(mail Mail) map[string]string {
	return map[string]string{
		"to_name":         mail.ToName,
		"to_email":        mail.ToEmail,
		"subject":         mail.Subject,
		"message":         mail.Message,
		"action_link":     mail.ActionLink,
		"admin_email":     m.cfg.External.EmailJS.AdminEmail,
		"email":           mail.ToEmail,
		"user_email":      mail.ToEmail,
		"recipient_email": mail.ToEmail,
		"reply_to":        mail.ToEmail,
	}
}

type logMailer struct {
	adminEmail string
}

func (l logMailer) AdminEmail() string {
	return l.adminEmail
}

func (logMailer) Send(_ context.Context, mail Mail) error {
	log.Info().
		Str("to", mail.ToEmail).
		Str("subject", mail.Subject).
		Str("action_link", mail.ActionLink).
		Msg("email not sent, mailer runs in log mode")

	return nil
}
