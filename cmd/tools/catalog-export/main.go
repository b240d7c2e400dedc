// cmd/tools/catalog-export/main.go
//
// Exports the registered intents as a versioned JSON catalog for UIs and
// docs, and validates existing catalog files.
package main

import (
	"flag"
	"fmt"
	"os"

	"devops-assistant/internal/common/config"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/registry"
	"devops-assistant/internal/intents"
	"devops-assistant/internal/intents/notimplemented"
	"devops-assistant/pkg/catalog"
)

// exampleQueries seeds the catalog with representative phrasings per
// category. Kept here rather than in intent metadata: the classifier
// never sees these, only UIs do.
var exampleQueries = map[string][]string{
	"worked_hours":        {"Quantas horas a Alice trabalhou essa semana?"},
	"get_tasks":           {"Quais tarefas mudaram hoje no projeto Delta?"},
	"project_search":      {"Procura projetos de mobile banking"},
	"project_selection":   {"Seleciona o projeto Delta"},
	"project_deselection": {"Esquece o projeto"},
	"project_team":        {"Quem está no time desse projeto?"},
	"available_intents":   {"O que você sabe fazer?"},
}

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	outPath := exportCmd.String("out", "configs/intent-catalog.json", "Output path for the catalog file")
	version := exportCmd.String("version", "1.0.0", "Catalog version stamp")

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	catalogPath := validateCmd.String("path", "configs/intent-catalog.json", "Path to catalog file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := export(*outPath, *version); err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported intent catalog to %s\n", *outPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		cat, err := catalog.Load(*catalogPath)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		if err := cat.Validate(); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed. Found %d intents.\n", len(cat.Intents))

	case "help":
		fallthrough
	default:
		help()
	}
}

func export(path, version string) error {
	// Registration only captures backends in closures; nothing is called,
	// so nil clients are fine here.
	cfg := &config.Config{}
	reg := registry.New()
	if err := intents.RegisterAll(reg, intents.Deps{
		Config: cfg,
		Logger: logger.NewNoOpLogger(),
	}); err != nil {
		return fmt.Errorf("failed to build registry: %w", err)
	}

	planned := make(map[string]bool)
	for _, p := range notimplemented.PlannedCategories {
		planned[p.Category] = true
	}

	cat := catalog.New(version)
	for _, meta := range reg.ListAll() {
		status := "available"
		if planned[meta.Category] {
			status = "planned"
		}
		if err := cat.Add(catalog.Entry{
			Category:          meta.Category,
			DisplayName:       meta.DisplayName,
			Description:       meta.Description,
			AgentName:         meta.AgentName,
			RequiresProject:   meta.RequiresProject,
			RequiresLLMFinish: meta.RequiresLLMFinish,
			Status:            status,
			ExampleQueries:    exampleQueries[meta.Category],
		}); err != nil {
			return err
		}
	}

	if err := cat.Validate(); err != nil {
		return fmt.Errorf("generated catalog is invalid: %w", err)
	}
	return catalog.Save(cat, path)
}

func help() {
	fmt.Print(`
Usage: catalog-export <command> [flags]

Commands:
  export    Generate the intent catalog from the registered intents
  validate  Validate an existing catalog file
  help      Show this help message

Examples:
  catalog-export export -out configs/intent-catalog.json -version 1.1.0
  catalog-export validate -path configs/intent-catalog.json

Use 'catalog-export <command> -h' for more information about a command.
`)
}
