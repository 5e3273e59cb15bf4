// Package events carries domain activity to Kafka and turns it into admin notifications.
package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"time"

	"umrahcrm/config"
	"umrahcrm/infras/kafka"
	"umrahcrm/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Type string

const (
	LeadCreated     Type = "lead.created"
	VoucherAccepted Type = "lead.voucher_accepted"
	VoucherRejected Type = "lead.voucher_rejected"
	TicketCreated   Type = "ticket.created"
	TicketUpdated   Type = "ticket.updated"
)

const (
	AttrLeadName        = "lead_name"
	AttrQuotationNumber = "quotation_number"
	AttrReason          = "reason"
	AttrComment         = "comment"
	AttrProofURL        = "payment_proof_url"
	AttrAction          = "action"
	AttrStatus          = "status"
	AttrDescription     = "description"
)

const publishTimeout = 5 * time.Second

type Event struct {
	Type       Type              `json:"type"`
	SubjectID  string            `json:"subject_id"`
	Actor      string            `json:"actor,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func New(t Type, subjectID, actor string, attrs map[string]string) Event {
	return Event{
		Type:       t,
		SubjectID:  subjectID,
		Actor:      actor,
		OccurredAt: timezone.Now(),
		Attributes: attrs,
	}
}

// Publisher is fire-and-forget: failures are logged, never returned to the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
}

// NewPublisher writes to Kafka when a client is available and drops events otherwise.
func NewPublisher(cfg *config.Config, client kafka.Client) Publisher {
	if client == nil {
		return noopPublisher{}
	}

	return &kafkaPublisher{client: client, topic: cfg.Kafka.Topic}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) {
	go func() {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		err := p.client.SendMessages(c, p.topic, kafka.Message{
			Key:   event.SubjectID,
			Type:  string(event.Type),
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("event", string(event.Type)).Str("subject", event.SubjectID).Msg("failed to publish event")
		}
	}()
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, event Event) {
	log.Debug().Str("event", string(event.Type)).Str("subject", event.SubjectID).Msg("event publishing disabled")
}
