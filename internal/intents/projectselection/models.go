// internal/intents/projectselection/models.go
package projectselection

import (
	"devops-assistant/internal/common/errors"
)

const (
	Category  = "project_selection"
	AgentName = "project-selection-agent"
)

// Match statuses reported in the result data.
const (
	StatusExact     = "exact"
	StatusSuggested = "suggested"
	StatusAmbiguous = "ambiguous"
	StatusNotFound  = "not_found"
)

// Params names the project to select, either literally or as a number
// referring to the previous search listing.
type Params struct {
	Project         string `json:"project,omitempty"`
	SelectionNumber int    `json:"selection_number,omitempty"`
}

func (p Params) Validate() error {
	if p.Project == "" && p.SelectionNumber == 0 {
		return errors.NewMissingParameterError("project")
	}
	return nil
}

func (p Params) AsMap() map[string]interface{} {
	m := map[string]interface{}{}
	if p.Project != "" {
		m["project"] = p.Project
	}
	if p.SelectionNumber > 0 {
		m["selection_number"] = p.SelectionNumber
	}
	return m
}

type rawParams struct {
	Project         string `json:"project,omitempty"`
	SelectionNumber int    `json:"selection_number,omitempty"`
}

var extractionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"project":          map[string]interface{}{"type": "string"},
		"selection_number": map[string]interface{}{"type": "integer", "minimum": 1},
	},
	"additionalProperties": false,
}
