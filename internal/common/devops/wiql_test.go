package devops

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"devops-assistant/internal/models"
)

func TestBuildWIQL(t *testing.T) {
	after := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter models.WorkItemFilter
		want   string
	}{
		{
			name:   "no filters",
			filter: models.WorkItemFilter{},
			want:   "SELECT [System.Id] FROM WorkItems ORDER BY [System.ChangedDate] DESC",
		},
		{
			name: "person and date range",
			filter: models.WorkItemFilter{
				AssignedTo:   "Alice",
				ChangedAfter: after,
				ChangedUntil: until,
			},
			want: "SELECT [System.Id] FROM WorkItems WHERE [System.AssignedTo] CONTAINS 'Alice'" +
				" AND [System.ChangedDate] >= '2025-11-03'" +
				" AND [System.ChangedDate] <= '2025-11-09'" +
				" ORDER BY [System.ChangedDate] DESC",
		},
		{
			name: "project state and type",
			filter: models.WorkItemFilter{
				Project:      "Delta",
				State:        "Active",
				WorkItemType: "Task",
			},
			want: "SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = 'Delta'" +
				" AND [System.State] = 'Active'" +
				" AND [System.WorkItemType] = 'Task'" +
				" ORDER BY [System.ChangedDate] DESC",
		},
		{
			name: "quotes are escaped",
			filter: models.WorkItemFilter{
				AssignedTo: "O'Brien",
			},
			want: "SELECT [System.Id] FROM WorkItems WHERE [System.AssignedTo] CONTAINS 'O''Brien'" +
				" ORDER BY [System.ChangedDate] DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildWIQL(tt.filter))
		})
	}
}
