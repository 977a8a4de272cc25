// Package worker runs catalog maintenance jobs off the request path.
//
// Jobs arrive as JSON messages on a Pub/Sub subscription. When no
// subscription is configured the worker regenerates the catalog on a ticker.
package worker

import (
	"encoding/json"
	"fmt"

	"github.com/travelwits/travelwits/internal/catalog"
)

// Job types carried in the job_type field.
const (
	JobTypeCatalogRegenerate = "catalog_regenerate"
	JobTypeHealthCheck       = "health_check"
)

// RegenerateMessage is the wire format of a maintenance job.
type RegenerateMessage struct {
	JobType string `json:"job_type"`
	JobID   string `json:"job_id,omitempty"`
	Flights bool   `json:"flights,omitempty"`
	Hotels  bool   `json:"hotels,omitempty"`
	Seed    uint64 `json:"seed,omitempty"`

	// RequestedBy is the operator token subject that queued the job.
	RequestedBy string `json:"requested_by,omitempty"`
}

// Options converts the message into regeneration options.
func (m RegenerateMessage) Options() catalog.RegenerateOptions {
	return catalog.RegenerateOptions{Flights: m.Flights, Hotels: m.Hotels, Seed: m.Seed}
}

// ParseMessage decodes a job message.
func ParseMessage(data []byte) (RegenerateMessage, error) {
	var msg RegenerateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return RegenerateMessage{}, fmt.Errorf("parse job message: %w", err)
	}
	return msg, nil
}
