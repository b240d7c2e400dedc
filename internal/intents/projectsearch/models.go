// internal/intents/projectsearch/models.go
package projectsearch

import (
	"devops-assistant/internal/common/errors"
)

const (
	Category  = "project_search"
	AgentName = "project-search-agent"
)

// Params carries the free-text search expression.
type Params struct {
	Keywords string `json:"keywords"`
}

func (p Params) Validate() error {
	if p.Keywords == "" {
		return errors.NewMissingParameterError("keywords")
	}
	return nil
}

func (p Params) AsMap() map[string]interface{} {
	return map[string]interface{}{"keywords": p.Keywords}
}

type rawParams struct {
	Keywords string `json:"keywords,omitempty"`
}

var extractionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"keywords": map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}
