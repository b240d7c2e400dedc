// internal/intents/gettasks/models.go
package gettasks

import (
	"devops-assistant/internal/common/errors"
)

const (
	Category  = "get_tasks"
	AgentName = "get-tasks-agent"
)

// Params is the resolved filter for a task listing.
type Params struct {
	Person       string   `json:"person"`
	State        string   `json:"state,omitempty"`
	WorkItemType string   `json:"work_item_type,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Project      string   `json:"project,omitempty"`
	Scope        string   `json:"scope"`
}

func (p Params) Validate() error {
	if p.Person == "" {
		return errors.NewMissingParameterError("person")
	}
	return nil
}

func (p Params) AsMap() map[string]interface{} {
	m := map[string]interface{}{
		"person": p.Person,
		"scope":  p.Scope,
	}
	if p.State != "" {
		m["state"] = p.State
	}
	if p.WorkItemType != "" {
		m["work_item_type"] = p.WorkItemType
	}
	if len(p.Tags) > 0 {
		m["tags"] = p.Tags
	}
	if p.StartDate != "" {
		m["start_date"] = p.StartDate
		m["end_date"] = p.EndDate
	}
	if p.Project != "" {
		m["project"] = p.Project
	}
	return m
}

type rawParams struct {
	Person         string   `json:"person,omitempty"`
	State          string   `json:"state,omitempty"`
	WorkItemType   string   `json:"work_item_type,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	RelativePeriod string   `json:"relative_period,omitempty"`
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	Project        string   `json:"project,omitempty"`
}

var extractionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"person": map[string]interface{}{"type": "string"},
		"state": map[string]interface{}{
			"type": "string",
			"enum": []string{"New", "Active", "Resolved", "Closed"},
		},
		"work_item_type": map[string]interface{}{
			"type": "string",
			"enum": []string{"Task", "Bug", "User Story", "Feature"},
		},
		"tags": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
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
