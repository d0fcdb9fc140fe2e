package persistence

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptnx/pipeline/internal/domain"
)

func artifactFixture() domain.Artifact {
	return domain.Artifact{
		Id:          "a1",
		Title:       "SaaS Landing Page Hero",
		Category:    "development",
		Status:      domain.StageDraft,
		LastUpdated: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestArtifactRepoList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "last_updated.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "a1", "title": "SaaS Landing Page Hero", "category": "development", "status": "live", "metrics": {"views": 1200, "sales": 34, "conversion_rate": 2.8}, "qa_score": 91},
			{"id": "a2", "title": "Logo Concept Brief", "category": "design", "status": "draft"}
		]`))
	}))
	defer server.Close()

	repo := ArtifactRepo{
		BaseHeaders: []string{"apikey:service-key", "Authorization:Bearer service-key"},
		BaseUrl:     server.URL,
	}

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.StageLive, records[0].Status)
	require.NotNil(t, records[0].Metrics)
	assert.Equal(t, 1200, records[0].Metrics.Views)
	assert.Equal(t, 91, records[0].QAScore)
	assert.Nil(t, records[1].Metrics)
}

func TestArtifactRepoListEmptyCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	repo := ArtifactRepo{BaseUrl: server.URL}

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestArtifactRepoListUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer server.Close()

	repo := ArtifactRepo{BaseUrl: server.URL}

	_, err := repo.List(context.Background())
	require.EqualError(t, err, "unexpected response status code error")
}

func TestArtifactRepoInsert(t *testing.T) {
	var received domain.Artifact

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(201)
	}))
	defer server.Close()

	repo := ArtifactRepo{BaseUrl: server.URL}

	err := repo.Insert(context.Background(), artifactFixture())
	require.NoError(t, err)

	assert.Equal(t, "a1", received.Id)
	assert.Equal(t, domain.StageDraft, received.Status)
}

func TestArtifactRepoUpdateStatus(t *testing.T) {
	var body map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "id=eq.a1", r.URL.RawQuery)

		content, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(content, &body))

		w.WriteHeader(204)
	}))
	defer server.Close()

	repo := ArtifactRepo{BaseUrl: server.URL}

	err := repo.UpdateStatus(context.Background(), "a1", domain.StageTesting)
	require.NoError(t, err)

	assert.Equal(t, "testing", body["status"])

	_, err = time.Parse(time.RFC3339, body["last_updated"].(string))
	require.NoError(t, err)
}

func TestArtifactRepoUpdateQAScore(t *testing.T) {
	var body map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "id=eq.a2", r.URL.RawQuery)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.WriteHeader(204)
	}))
	defer server.Close()

	repo := ArtifactRepo{BaseUrl: server.URL}

	err := repo.UpdateQAScore(context.Background(), "a2", 88)
	require.NoError(t, err)

	assert.Equal(t, float64(88), body["qa_score"])
}

func TestArtifactRepoUpdateStatusUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer server.Close()

	repo := ArtifactRepo{BaseUrl: server.URL}

	err := repo.UpdateStatus(context.Background(), "a1", domain.StageLive)
	require.EqualError(t, err, "unexpected response status code error")
}
