package devops

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/models"
)

func newTestRESTSource(t *testing.T, baseURL string) *RESTSource {
	t.Helper()
	return NewRESTSource(&RESTConfig{
		BaseURL:      baseURL,
		Organization: "acme",
		PAT:          "secret",
		Timeout:      2 * time.Second,
		MaxRetries:   1,
	}, logger.NewNoOpLogger())
}

func TestQueryWorkItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pat, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "secret", pat)

		switch {
		case strings.Contains(r.URL.Path, "/wiql"):
			var body struct {
				Query string `json:"query"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body.Query, "[System.AssignedTo] CONTAINS 'Alice'")

			json.NewEncoder(w).Encode(map[string]interface{}{
				"workItems": []map[string]int{{"id": 101}, {"id": 102}},
			})
		case strings.Contains(r.URL.Path, "/workitemsbatch"):
			var body struct {
				IDs []int `json:"ids"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []int{101, 102}, body.IDs)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"value": []map[string]interface{}{
					{
						"id": 101,
						"fields": map[string]interface{}{
							"System.Title":      "Fix login flow",
							"System.State":      "Active",
							"System.AssignedTo": map[string]interface{}{"displayName": "Alice"},
							"System.Tags":       "backend; urgent",
							"Microsoft.VSTS.Scheduling.CompletedWork": 4.5,
						},
					},
					{
						"id": 102,
						"fields": map[string]interface{}{
							"System.Title":      "Update docs",
							"System.State":      "Closed",
							"System.AssignedTo": "Alice",
						},
					},
				},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	source := newTestRESTSource(t, server.URL)
	items, err := source.QueryWorkItems(context.Background(), models.WorkItemFilter{AssignedTo: "Alice"})

	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 101, items[0].ID)
	assert.Equal(t, "Fix login flow", items[0].Title)
	assert.Equal(t, "Alice", items[0].AssignedTo)
	assert.Equal(t, []string{"backend", "urgent"}, items[0].Tags)
	assert.Equal(t, 4.5, items[0].HoursOrZero())

	// Absent completed work counts as zero hours.
	assert.Equal(t, "Alice", items[1].AssignedTo)
	assert.Nil(t, items[1].CompletedHours)
	assert.Equal(t, 0.0, items[1].HoursOrZero())
}

func TestQueryWorkItemsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/wiql")
		json.NewEncoder(w).Encode(map[string]interface{}{"workItems": []interface{}{}})
	}))
	defer server.Close()

	source := newTestRESTSource(t, server.URL)
	items, err := source.QueryWorkItems(context.Background(), models.WorkItemFilter{})

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListProjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/_apis/projects", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"value": []map[string]string{
				{"id": "p1", "name": "Delta", "description": "Payments", "state": "wellFormed"},
				{"id": "p2", "name": "Orion", "state": "wellFormed"},
			},
		})
	}))
	defer server.Close()

	source := newTestRESTSource(t, server.URL)
	projects, err := source.ListProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Delta", projects[0].Name)
	assert.Equal(t, "Payments", projects[0].Description)
}

func TestTeamMembers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.EscapedPath(), "/teams/Delta%20Team/members")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"value": []map[string]interface{}{
				{"identity": map[string]string{"id": "u1", "displayName": "Alice", "uniqueName": "alice@acme.com"}},
			},
		})
	}))
	defer server.Close()

	source := newTestRESTSource(t, server.URL)
	members, err := source.TeamMembers(context.Background(), "Delta")

	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].DisplayName)
	assert.Equal(t, "alice@acme.com", members[0].Email)
}
