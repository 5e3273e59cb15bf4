package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"umrahcrm/config"
	"umrahcrm/infras/kafka"
	kafkaMocks "umrahcrm/infras/kafka/mocks"
	"umrahcrm/infras/mailer"
	mailerMocks "umrahcrm/infras/mailer/mocks"
	"umrahcrm/internal/events"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.Topic = "umrahcrm.events"

	return cfg
}

func encode(t *testing.T, event events.Event) kafkaGo.Message {
	t.Helper()

	value, err := json.Marshal(event)
	require.NoError(t, err)

	return kafkaGo.Message{Key: []byte(event.SubjectID), Value: value}
}

func TestPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := kafkaMocks.NewMockClient(ctrl)
	done := make(chan kafka.Message, 1)

	client.EXPECT().
		SendMessages(gomock.Any(), "umrahcrm.events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			done <- messages[0]

			return nil
		})

	publisher := events.NewPublisher(newConfig(), client)
	publisher.Publish(context.Background(), events.New(events.LeadCreated, "lead-1", "consultant-1", nil))

	select {
	case msg := <-done:
		assert.Equal(t, "lead-1", msg.Key)
		assert.Equal(t, string(events.LeadCreated), msg.Type)
	case <-time.After(time.Second):
		t.Fatal("event was not published")
	}
}

func TestPublisher_WithoutClient(t *testing.T) {
	publisher := events.NewPublisher(newConfig(), nil)

	assert.NotPanics(t, func() {
		publisher.Publish(context.Background(), events.New(events.TicketCreated, "T-1001", "", nil))
	})
}

func TestNotifier_Handle(t *testing.T) {
	tests := []struct {
		name        string
		event       events.Event
		wantSubject string
		sendErr     error
		wantErr     bool
	}{
		{
			name: "voucher rejected",
			event: events.New(events.VoucherRejected, "3", "", map[string]string{
				events.AttrLeadName:        "Demo Lead (Voucher)",
				events.AttrQuotationNumber: "QT-9999",
				events.AttrReason:          "Price is too high",
			}),
			wantSubject: "Voucher rejected: QT-9999",
		},
		{
			name:        "ticket created",
			event:       events.New(events.TicketCreated, "T-2040", "", map[string]string{events.AttrAction: "Refund"}),
			wantSubject: "New support ticket T-2040: Refund",
		},
		{
			name:        "mail failure",
			event:       events.New(events.VoucherAccepted, "3", "", map[string]string{events.AttrQuotationNumber: "QT-9999"}),
			wantSubject: "Voucher accepted: QT-9999",
			sendErr:     errors.New("provider down"),
			wantErr:     true,
		},
		{
			name:  "lead created is not mailed",
			event: events.New(events.LeadCreated, "lead-1", "", nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			m := mailerMocks.NewMockMailer(ctrl)
			m.EXPECT().AdminEmail().Return("admin@example.com").AnyTimes()

			if tt.wantSubject != "" {
				m.EXPECT().
					Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mail mailer.Mail) error {
						assert.Equal(t, tt.wantSubject, mail.Subject)
						assert.Equal(t, "admin@example.com", mail.ToEmail)

						return tt.sendErr
					})
			}

			n := events.NewNotifier(newConfig(), nil, m)
			err := n.Handle(context.Background(), encode(t, tt.event))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotifier_HandleMalformed(t *testing.T) {
	ctrl := gomock.NewController(t)

	n := events.NewNotifier(newConfig(), nil, mailerMocks.NewMockMailer(ctrl))

	assert.Error(t, n.Handle(context.Background(), kafkaGo.Message{Value: []byte("{")}))
}

func TestNotifier_RunWithoutClient(t *testing.T) {
	ctrl := gomock.NewController(t)

	n := events.NewNotifier(newConfig(), nil, mailerMocks.NewMockMailer(ctrl))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, n.Run(ctx))
}
