// Package timezone keeps every timestamp the service writes in APP_TIMEZONE.
package timezone

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var location atomic.Pointer[time.Location]

// Resolve loads an IANA zone name. Empty or unknown names fall back to UTC.
func Resolve(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")

		return time.UTC
	}

	return loc
}

// Init sets the zone Now and Format use. Until it runs they use UTC.
func Init(name string) *time.Location {
	loc := Resolve(name)
	location.Store(loc)

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(Location())
}

func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
