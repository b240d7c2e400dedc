// Package intents assembles the intent catalog: every category the
// assistant ships with is registered here, in the order the classifier
// should see them.
package intents

import (
	"github.com/elastic/go-elasticsearch/v8"

	"devops-assistant/internal/common/config"
	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/registry"
	"devops-assistant/internal/intents/availableintents"
	"devops-assistant/internal/intents/defaultintent"
	"devops-assistant/internal/intents/gettasks"
	"devops-assistant/internal/intents/notimplemented"
	"devops-assistant/internal/intents/projectdeselection"
	"devops-assistant/internal/intents/projectsearch"
	"devops-assistant/internal/intents/projectselection"
	"devops-assistant/internal/intents/projectteam"
	"devops-assistant/internal/intents/smalltalk"
	"devops-assistant/internal/intents/workedhours"
)

// Deps carries the shared backends every intent draws from.
type Deps struct {
	Config *config.Config
	LLM    llm.Client
	Source devops.Source
	ES     *elasticsearch.Client
	Logger logger.Logger
}

// RegisterAll builds the registry with every shipped intent, honoring
// per-intent enable flags from the config. The default intent is always
// registered regardless of config: the router cannot work without it.
func RegisterAll(reg *registry.Registry, deps Deps) error {
	defaultProject := deps.Config.DevOps.DefaultProject

	candidates := []registry.Metadata{
		workedhours.Definition(deps.LLM, deps.Source, defaultProject, deps.Logger),
		gettasks.Definition(deps.LLM, deps.Source, defaultProject, deps.Logger),
		projectselection.Definition(deps.LLM, deps.Source, deps.Logger),
		projectdeselection.Definition(deps.Logger),
		projectteam.Definition(deps.Source, deps.Logger),
		availableintents.Definition(reg, deps.Logger),
		smalltalk.Definition(deps.Logger),
	}
	if deps.ES != nil {
		candidates = append(candidates, projectsearch.Definition(
			deps.LLM, deps.ES, deps.Config.Database.Elasticsearch.ProjectIndex, deps.Logger))
	}
	for _, planned := range notimplemented.PlannedCategories {
		candidates = append(candidates, notimplemented.Definition(planned.Category, planned.Description, deps.Logger))
	}

	for _, meta := range candidates {
		if !config.IsIntentEnabled(deps.Config, meta.Category) {
			deps.Logger.Info("intent disabled by config", map[string]interface{}{
				"category": meta.Category,
			})
			continue
		}
		if err := reg.Register(meta); err != nil {
			return err
		}
	}

	return reg.Register(defaultintent.Definition(deps.Logger))
}
