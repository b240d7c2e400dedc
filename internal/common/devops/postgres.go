package devops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/models"
)

// PostgresSource reads from a replicated tracker schema. Used in
// environments where the tracker API is not reachable from the assistant.
type PostgresSource struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, log logger.Logger) *PostgresSource {
	return &PostgresSource{
		db: db,
		logger: log.With(map[string]interface{}{
			"component": "devops-postgres",
		}),
	}
}

func (s *PostgresSource) QueryWorkItems(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, error) {
	query := `
		SELECT id, title, state, work_item_type, assigned_to, project,
		       tags, completed_hours, created_date, changed_date
		FROM work_items`

	var clauses []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Project != "" {
		clauses = append(clauses, "project = "+arg(filter.Project))
	}
	if filter.AssignedTo != "" {
		clauses = append(clauses, "assigned_to ILIKE "+arg("%"+filter.AssignedTo+"%"))
	}
	if filter.State != "" {
		clauses = append(clauses, "state = "+arg(filter.State))
	}
	if filter.WorkItemType != "" {
		clauses = append(clauses, "work_item_type = "+arg(filter.WorkItemType))
	}
	for _, tag := range filter.Tags {
		clauses = append(clauses, arg(tag)+" = ANY(string_to_array(tags, ';'))")
	}
	if !filter.ChangedAfter.IsZero() {
		clauses = append(clauses, "changed_date >= "+arg(filter.ChangedAfter.Format("2006-01-02")))
	}
	if !filter.ChangedUntil.IsZero() {
		clauses = append(clauses, "changed_date <= "+arg(filter.ChangedUntil.Format("2006-01-02")))
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY changed_date DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewServiceTimeoutError("devops-postgres")
		}
		return nil, errors.NewServiceError("devops-postgres", err)
	}
	defer rows.Close()

	var items []models.WorkItem
	for rows.Next() {
		var item models.WorkItem
		var assignedTo, project, tags, createdDate, changedDate sql.NullString
		var completedHours sql.NullFloat64

		if err := rows.Scan(&item.ID, &item.Title, &item.State, &item.WorkItemType,
			&assignedTo, &project, &tags, &completedHours, &createdDate, &changedDate); err != nil {
			return nil, errors.NewServiceError("devops-postgres", err)
		}

		item.AssignedTo = assignedTo.String
		item.Project = project.String
		item.CreatedDate = createdDate.String
		item.ChangedDate = changedDate.String
		if completedHours.Valid {
			hours := completedHours.Float64
			item.CompletedHours = &hours
		}
		if tags.Valid && tags.String != "" {
			for _, tag := range strings.Split(tags.String, ";") {
				if trimmed := strings.TrimSpace(tag); trimmed != "" {
					item.Tags = append(item.Tags, trimmed)
				}
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewServiceError("devops-postgres", err)
	}

	if items == nil {
		items = []models.WorkItem{}
	}
	return items, nil
}

func (s *PostgresSource) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, state
		FROM projects
		ORDER BY name`)
	if err != nil {
		return nil, errors.NewServiceError("devops-postgres", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		var description, state sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &state); err != nil {
			return nil, errors.NewServiceError("devops-postgres", err)
		}
		p.Description = description.String
		p.State = state.String
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewServiceError("devops-postgres", err)
	}
	return projects, nil
}

func (s *PostgresSource) TeamMembers(ctx context.Context, project string) ([]models.TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.display_name, m.email, m.role
		FROM team_members m
		JOIN projects p ON p.id = m.project_id
		WHERE p.name = $1
		ORDER BY m.display_name`, project)
	if err != nil {
		return nil, errors.NewServiceError("devops-postgres", err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		var email, role sql.NullString
		if err := rows.Scan(&m.ID, &m.DisplayName, &email, &role); err != nil {
			return nil, errors.NewServiceError("devops-postgres", err)
		}
		m.Email = email.String
		m.Role = role.String
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewServiceError("devops-postgres", err)
	}
	return members, nil
}
