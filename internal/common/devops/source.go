// Package devops provides typed access to the project-tracking backend.
// Two backends exist: the tracker's REST API (WIQL) and a replicated
// Postgres schema used when direct API access is unavailable.
package devops

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"devops-assistant/internal/common/config"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/models"
)

// Source is the query surface consumed by intent services.
type Source interface {
	QueryWorkItems(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	TeamMembers(ctx context.Context, project string) ([]models.TeamMember, error)
}

// New selects the backend from configuration. In postgres mode the caller
// owns the *sql.DB lifetime; in rest mode db may be nil.
func New(cfg *config.Config, db *sql.DB, log logger.Logger) (Source, error) {
	switch cfg.DevOps.Mode {
	case "rest":
		return NewRESTSource(&RESTConfig{
			BaseURL:      cfg.DevOps.BaseURL,
			Organization: cfg.DevOps.Organization,
			PAT:          cfg.DevOps.PAT,
			Timeout:      time.Duration(cfg.DevOps.Timeout) * time.Millisecond,
			MaxRetries:   cfg.DevOps.MaxRetries,
		}, log), nil
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres mode requires a database connection")
		}
		return NewPostgresSource(db, log), nil
	default:
		return nil, fmt.Errorf("unknown devops mode %q", cfg.DevOps.Mode)
	}
}
