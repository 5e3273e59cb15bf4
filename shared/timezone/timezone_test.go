package timezone_test

import (
	"testing"
	"time"

	"umrahcrm/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want string
	}{
		{name: "empty", zone: "", want: "UTC"},
		{name: "unknown", zone: "Mars/Olympus", want: "UTC"},
		{name: "known", zone: "Asia/Jakarta", want: "Asia/Jakarta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timezone.Resolve(tt.zone).String())
		})
	}
}

func TestLocation_DefaultsToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, timezone.Location())
	assert.Equal(t, time.UTC, timezone.Now().Location())
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { timezone.Init("UTC") })

	loc := timezone.Init("Asia/Riyadh")

	assert.Equal(t, "Asia/Riyadh", loc.String())
	assert.Equal(t, loc, timezone.Location())
	assert.Equal(t, loc, timezone.Now().Location())

	moment := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-15", timezone.Format(moment, time.DateOnly))
}
