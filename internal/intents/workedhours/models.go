// internal/intents/workedhours/models.go
package workedhours

import (
	"devops-assistant/internal/common/errors"
)

const (
	Category  = "worked_hours"
	AgentName = "worked-hours-agent"
)

// Params is the resolved parameter set: dates are always absolute ISO
// days by the time the service sees them.
type Params struct {
	Person    string `json:"person"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Project   string `json:"project,omitempty"`
	Scope     string `json:"scope"`
}

func (p Params) Validate() error {
	if p.Person == "" {
		return errors.NewMissingParameterError("person")
	}
	if p.StartDate == "" || p.EndDate == "" {
		return errors.NewMissingParameterError("period")
	}
	return nil
}

func (p Params) AsMap() map[string]interface{} {
	m := map[string]interface{}{
		"person":     p.Person,
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
		"scope":      p.Scope,
	}
	if p.Project != "" {
		m["project"] = p.Project
	}
	return m
}

// rawParams is the shape the extraction capability fills in. Relative
// periods are resolved locally, never by the model.
type rawParams struct {
	Person         string `json:"person,omitempty"`
	RelativePeriod string `json:"relative_period,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	Project        string `json:"project,omitempty"`
}

var extractionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"person": map[string]interface{}{"type": "string"},
		"relative_period": map[string]interface{}{
			"type": "string",
			"enum": []string{"today", "yesterday", "this_week", "last_week", "this_month", "last_month"},
		},
		"start_date": map[string]interface{}{"type": "string", "format": "date"},
		"end_date":   map[string]interface{}{"type": "string", "format": "date"},
		"project":    map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}
