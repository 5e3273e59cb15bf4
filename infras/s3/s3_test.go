package s3_test

import (
	"context"
	"testing"

	"umrahcrm/config"
	"umrahcrm/infras/otel/mocks"
	"umrahcrm/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		url    string
		want   string
	}{
		{name: "inside domain", domain: "https://cdn.example.com", url: "https://cdn.example.com/documents/3/a.pdf", want: "documents/3/a.pdf"},
		{name: "trailing slash domain", domain: "https://cdn.example.com/", url: "https://cdn.example.com/videos/v.mp4", want: "videos/v.mp4"},
		{name: "foreign url", domain: "https://cdn.example.com", url: "https://elsewhere.com/a.pdf", want: ""},
		{name: "no domain", domain: "", url: "https://cdn.example.com/a.pdf", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3.ObjectKey(tt.domain, tt.url))
		})
	}
}

func TestPublicURL_RoundTrip(t *testing.T) {
	url := s3.PublicURL("https://cdn.example.com/", "payment-proofs/p.png")

	assert.Equal(t, "https://cdn.example.com/payment-proofs/p.png", url)
	assert.Equal(t, "payment-proofs/p.png", s3.ObjectKey("https://cdn.example.com", url))
}

func TestNew_Unconfigured(t *testing.T) {
	client := s3.New(&config.Config{}, mocks.NewOtel())

	_, err := client.UploadBytes(context.Background(), s3.DirDocuments, "a.pdf", "application/pdf", []byte("%PDF"))

	assert.ErrorIs(t, err, s3.ErrNotConfigured)
}
