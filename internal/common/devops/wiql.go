package devops

import (
	"fmt"
	"strings"

	"devops-assistant/internal/models"
)

// BuildWIQL renders a WorkItemFilter as a WIQL query string. Values are
// escaped by doubling single quotes, the only escaping WIQL understands.
func BuildWIQL(filter models.WorkItemFilter) string {
	var b strings.Builder
	b.WriteString("SELECT [System.Id] FROM WorkItems")

	var clauses []string
	if filter.Project != "" {
		clauses = append(clauses, fmt.Sprintf("[System.TeamProject] = '%s'", escapeWIQL(filter.Project)))
	}
	if filter.AssignedTo != "" {
		clauses = append(clauses, fmt.Sprintf("[System.AssignedTo] CONTAINS '%s'", escapeWIQL(filter.AssignedTo)))
	}
	if filter.State != "" {
		clauses = append(clauses, fmt.Sprintf("[System.State] = '%s'", escapeWIQL(filter.State)))
	}
	if filter.WorkItemType != "" {
		clauses = append(clauses, fmt.Sprintf("[System.WorkItemType] = '%s'", escapeWIQL(filter.WorkItemType)))
	}
	for _, tag := range filter.Tags {
		clauses = append(clauses, fmt.Sprintf("[System.Tags] CONTAINS '%s'", escapeWIQL(tag)))
	}
	if !filter.ChangedAfter.IsZero() {
		clauses = append(clauses, fmt.Sprintf("[System.ChangedDate] >= '%s'", filter.ChangedAfter.Format("2006-01-02")))
	}
	if !filter.ChangedUntil.IsZero() {
		clauses = append(clauses, fmt.Sprintf("[System.ChangedDate] <= '%s'", filter.ChangedUntil.Format("2006-01-02")))
	}

	if len(clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}

	b.WriteString(" ORDER BY [System.ChangedDate] DESC")
	return b.String()
}

func escapeWIQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
