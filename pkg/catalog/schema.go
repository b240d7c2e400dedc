// pkg/catalog/schema.go
package catalog

// IntentCatalog is the versioned, serializable view of every intent the
// assistant ships. It is what UIs and docs consume; the runtime registry
// is built from code, not from this file.
type IntentCatalog struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Intents     []Entry `json:"intents"`
}

// Entry describes one intent in the catalog.
type Entry struct {
	Category          string   `json:"category"`
	DisplayName       string   `json:"displayName"`
	Description       string   `json:"description"`
	AgentName         string   `json:"agentName"`
	RequiresProject   bool     `json:"requiresProject"`
	RequiresLLMFinish bool     `json:"requiresLLMFinish"`
	Status            string   `json:"status"`
	ExampleQueries    []string `json:"exampleQueries"`
}
