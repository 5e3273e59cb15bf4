// Package permissions maps each route to the roles allowed on it. The table is
// embedded from permissions.json.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Permission struct {
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Permissions []string `json:"permissions"`
	// Skip marks a public route.
	Skip bool `json:"skip"`
}

// Allows reports whether role may call the route. An empty list admits every signed in user.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	// Skip turns role checks off for every route.
	Skip bool `json:"skip"`

	index map[string]Permission
}

// FindPermissions matches a chi route pattern such as /v1/leads/{id}. Trailing slashes are ignored.
// Unknown routes get the zero Permission.
func (d *PermissionData) FindPermissions(path, method string) Permission {
	return d.index[key(path, method)]
}

func key(path, method string) string {
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}

	return strings.ToUpper(method) + " " + path
}

func Parse(data []byte) (*PermissionData, error) {
	var d PermissionData

	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	d.index = make(map[string]Permission, len(d.Endpoints))

	for _, endpoint := range d.Endpoints {
		k := key(endpoint.Path, endpoint.Method)
		if _, dup := d.index[k]; dup {
			return nil, fmt.Errorf("duplicate permission for %s", k)
		}

		d.index[k] = endpoint
	}

	return &d, nil
}

// Get parses the embedded table. A broken table yields nil, which denies every protected route.
func Get() *PermissionData {
	d, err := Parse(permissionsData)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(d.Endpoints)).Msg("Loaded embedded permissions")

	return d
}
