package devops

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/models"
)

func TestPostgresQueryWorkItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "title", "state", "work_item_type", "assigned_to", "project",
		"tags", "completed_hours", "created_date", "changed_date",
	}).
		AddRow(101, "Fix login flow", "Active", "Task", "Alice", "Delta",
			"backend;urgent", 4.5, "2025-11-03", "2025-11-05").
		AddRow(102, "Update docs", "Closed", "Task", "Alice", "Delta",
			nil, nil, "2025-11-01", "2025-11-04")

	mock.ExpectQuery("SELECT id, title, state, work_item_type").
		WithArgs("Delta", "%Alice%", "2025-11-03", "2025-11-09").
		WillReturnRows(rows)

	source := NewPostgresSource(db, logger.NewNoOpLogger())
	items, err := source.QueryWorkItems(context.Background(), models.WorkItemFilter{
		Project:      "Delta",
		AssignedTo:   "Alice",
		ChangedAfter: time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		ChangedUntil: time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Fix login flow", items[0].Title)
	assert.Equal(t, []string{"backend", "urgent"}, items[0].Tags)
	assert.Equal(t, 4.5, items[0].HoursOrZero())
	assert.Equal(t, 0.0, items[1].HoursOrZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQueryWorkItemsNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title, state, work_item_type").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "state", "work_item_type", "assigned_to", "project",
			"tags", "completed_hours", "created_date", "changed_date",
		}))

	source := NewPostgresSource(db, logger.NewNoOpLogger())
	items, err := source.QueryWorkItems(context.Background(), models.WorkItemFilter{})

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestPostgresListProjects(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, description, state").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "state"}).
			AddRow("p1", "Delta", "Payments", "active").
			AddRow("p2", "Orion", nil, nil))

	source := NewPostgresSource(db, logger.NewNoOpLogger())
	projects, err := source.ListProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Delta", projects[0].Name)
	assert.Equal(t, "", projects[1].Description)
}

func TestPostgresTeamMembers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT m.id, m.display_name, m.email, m.role").
		WithArgs("Delta").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "email", "role"}).
			AddRow("u1", "Alice", "alice@acme.com", "developer"))

	source := NewPostgresSource(db, logger.NewNoOpLogger())
	members, err := source.TeamMembers(context.Background(), "Delta")

	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].DisplayName)
	assert.Equal(t, "developer", members[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
