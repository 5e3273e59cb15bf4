package events

import (
	"context"
	"fmt"
	"strings"

	"umrahcrm/config"
	"umrahcrm/infras/kafka"
	"umrahcrm/infras/mailer"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Notifier emails the admin about voucher decisions and ticket activity.
type Notifier struct {
	client kafka.Client
	mailer mailer.Mailer
	topic  string
}

func NewNotifier(cfg *config.Config, client kafka.Client, m mailer.Mailer) *Notifier {
	return &Notifier{client: client, mailer: m, topic: cfg.Kafka.Topic}
}

// Run consumes until ctx is done. Without a Kafka client it only waits.
func (n *Notifier) Run(ctx context.Context) error {
	if n.client == nil {
		log.Info().Msg("event consumer disabled")
		<-ctx.Done()

		return nil
	}

	log.Info().Str("topic", n.topic).Msg("event consumer started")

	return n.client.Consume(ctx, n.topic, n.Handle)
}

func (n *Notifier) Handle(ctx context.Context, msg kafkaGo.Message) error {
	event, err := kafka.Decode[Event](msg)
	if err != nil {
		return err
	}

	mail, ok := n.compose(event)
	if !ok {
		return nil
	}

	if err = n.mailer.Send(ctx, mail); err != nil {
		return fmt.Errorf("failed to notify %s: %w", event.Type, err)
	}

	return nil
}

func (n *Notifier) compose(event Event) (mailer.Mail, bool) {
	attrs := event.Attributes
	admin := n.mailer.AdminEmail()

	if admin == "" {
		return mailer.Mail{}, false
	}

	switch event.Type {
	case VoucherAccepted:
		return mailer.Notice(admin,
			fmt.Sprintf("Voucher accepted: %s", attrs[AttrQuotationNumber]),
			fmt.Sprintf("%s accepted quotation %s.\n\nPayment proof: %s", attrs[AttrLeadName], attrs[AttrQuotationNumber], attrs[AttrProofURL]),
		), true
	case VoucherRejected:
		var sb strings.Builder

		fmt.Fprintf(&sb, "%s rejected quotation %s.\n\nReason: %s", attrs[AttrLeadName], attrs[AttrQuotationNumber], attrs[AttrReason])

		if comment := attrs[AttrComment]; comment != "" {
			fmt.Fprintf(&sb, "\nComment: %s", comment)
		}

		return mailer.Notice(admin, fmt.Sprintf("Voucher rejected: %s", attrs[AttrQuotationNumber]), sb.String()), true
	case TicketCreated:
		return mailer.Notice(admin,
			fmt.Sprintf("New support ticket %s: %s", event.SubjectID, attrs[AttrAction]),
			fmt.Sprintf("Lead: %s (%s)\n\n%s", attrs[AttrLeadName], attrs[AttrQuotationNumber], attrs[AttrDescription]),
		), true
	case TicketUpdated:
		return mailer.Notice(admin,
			fmt.Sprintf("Support ticket %s is now %s", event.SubjectID, attrs[AttrStatus]),
			fmt.Sprintf("Lead: %s (%s)", attrs[AttrLeadName], attrs[AttrQuotationNumber]),
		), true
	default:
		return mailer.Mail{}, false
	}
}
