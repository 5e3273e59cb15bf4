package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"umrahcrm/config"
	"umrahcrm/infras/otel"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNew_WithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "umrahcrm-test"
	cfg.External.Otel.SampleRatio = 1

	tracer := otel.New(cfg)

	ctx, scope := tracer.NewScope(context.Background(), "test", "test.span")
	assert.NotNil(t, ctx)

	scope.SetAttributes(map[string]any{"lead_id": "3", "count": 2})
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "string", value: "QT-8421", want: attribute.StringValue("QT-8421")},
		{name: "int", value: 7, want: attribute.IntValue(7)},
		{name: "float", value: 4250.5, want: attribute.Float64Value(4250.5)},
		{name: "strings", value: []string{"admin", "consultant"}, want: attribute.StringSliceValue([]string{"admin", "consultant"})},
		{name: "duration", value: 90 * time.Second, want: attribute.StringValue("1m30s")},
		{name: "fallback", value: struct{ N int }{3}, want: attribute.StringValue("{3}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := otel.Attribute("key", tt.value)

			assert.Equal(t, attribute.Key("key"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}
