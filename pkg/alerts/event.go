package alerts

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Alert is raised when a downstream call fails in a way an operator should see.
type Alert struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	RaisedAt    time.Time `json:"raised_at"`
}

// NewAlert stamps a fresh id and time on a failure report.
func NewAlert(source, code, description string) Alert {
	return Alert{
		ID:          uuid.NewString(),
		Source:      source,
		Code:        code,
		Description: description,
		RaisedAt:    time.Now().UTC(),
	}
}

// payload is the JSON body every sink delivers.
func (a Alert) payload() ([]byte, error) {
	return json.Marshal(a)
}

// attributes are the routing keys message brokers can filter on without decoding the body.
func (a Alert) attributes() map[string]string {
	return map[string]string{
		"alert_id": a.ID,
		"source":   a.Source,
		"code":     a.Code,
	}
}
