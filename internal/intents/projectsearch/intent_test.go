package projectsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/dispatch/intent"
)

type fakeLLM struct {
	llm.Client
	extraction map[string]interface{}
}

func (f *fakeLLM) Extract(ctx context.Context, req llm.ExtractRequest, out interface{}) error {
	raw, _ := json.Marshal(f.extraction)
	return json.Unmarshal(raw, out)
}

func newESClient(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return client
}

func esResponse(w http.ResponseWriter, hits []map[string]interface{}) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"hits": map[string]interface{}{"hits": hits},
	})
}

func TestProjectSearch(t *testing.T) {
	es := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/projects/_search")

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "pagamentos")

		esResponse(w, []map[string]interface{}{
			{"_score": 2.4, "_source": map[string]string{"id": "p1", "name": "Delta", "description": "Plataforma de pagamentos", "state": "active"}},
			{"_score": 1.1, "_source": map[string]string{"id": "p2", "name": "Orion", "description": "Portal interno", "state": "active"}},
		})
	})

	client := &fakeLLM{extraction: map[string]interface{}{"keywords": "pagamentos"}}
	meta := Definition(client, es, "projects", logger.NewNoOpLogger())
	h := meta.Factory("c1")

	resp, err := h.Handle(context.Background(), intent.Request{Message: "projetos de pagamentos"})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Data["project_count"])
	assert.Equal(t, []string{"Delta", "Orion"}, resp.Data["project_names"])

	// Listed names are kept in the turn params for number selection.
	assert.Equal(t, []string{"Delta", "Orion"}, resp.Params["listed_projects"])
}

func TestProjectSearchNoHits(t *testing.T) {
	es := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		esResponse(w, nil)
	})

	client := &fakeLLM{extraction: map[string]interface{}{"keywords": "inexistente"}}
	meta := Definition(client, es, "projects", logger.NewNoOpLogger())
	h := meta.Factory("c1")

	resp, err := h.Handle(context.Background(), intent.Request{Message: "projeto inexistente"})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Data["project_count"])
	assert.Equal(t, "Não encontrei projetos com esses termos.", resp.Message)
}

func TestProjectSearchFallsBackToMessage(t *testing.T) {
	var gotBody string
	es := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		esResponse(w, nil)
	})

	// Extraction found no keywords: the whole message is the query.
	client := &fakeLLM{extraction: map[string]interface{}{}}
	meta := Definition(client, es, "projects", logger.NewNoOpLogger())
	h := meta.Factory("c1")

	_, err := h.Handle(context.Background(), intent.Request{Message: "algo sobre vendas"})

	require.NoError(t, err)
	assert.Contains(t, gotBody, "algo sobre vendas")
}
