package app

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptnx/pipeline/internal/domain"
)

func newTestApp(generator *fakeGenerator, artifacts *fakeArtifactRepo) App {
	versions := &fakeVersionRepo{}
	return App{
		Session:   NewSession(generator, versions),
		Lifecycle: Lifecycle{Artifacts: artifacts},
		Versions:  versions,
	}
}

func TestGenerateEndpoint(t *testing.T) {
	generator := &fakeGenerator{result: &domain.GenerationResult{Prompt: "the prompt", Score: intPtr(82)}}
	a := newTestApp(generator, &fakeArtifactRepo{})

	body := `{"userInput": "build a todo app", "promptType": "app-development", "aiPlatform": "lovable", "outputFormat": "detailed", "language": "english"}`
	req := httptest.NewRequest("POST", "/api/generator/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	Controller(a.generate).ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	var resp sessionResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "the prompt", resp.Prompt)
	require.NotNil(t, resp.Score)
	assert.Equal(t, 82, *resp.Score)
	assert.Equal(t, "Prompt generated successfully!", resp.Message)
	assert.Empty(t, resp.Notice)
	assert.False(t, resp.PendingEdits)
}

func TestGenerateEndpointFallbackNotice(t *testing.T) {
	generator := &fakeGenerator{result: &domain.GenerationResult{Prompt: "offline prompt", Fallback: true}}
	a := newTestApp(generator, &fakeArtifactRepo{})

	body := `{"userInput": "x", "promptType": "coding", "aiPlatform": "chatgpt", "outputFormat": "casual"}`
	req := httptest.NewRequest("POST", "/api/generator/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	Controller(a.generate).ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	var resp sessionResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Degraded success keeps its own notice, separate from the success message.
	assert.Equal(t, "Prompt generated successfully!", resp.Message)
	assert.Equal(t, offlineNotice, resp.Notice)
}

func TestGenerateEndpointValidation(t *testing.T) {
	generator := &fakeGenerator{result: &domain.GenerationResult{Prompt: "x"}}
	a := newTestApp(generator, &fakeArtifactRepo{})

	req := httptest.NewRequest("POST", "/api/generator/generate", strings.NewReader(`{"userInput": ""}`))
	rec := httptest.NewRecorder()

	Controller(a.generate).ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
	assert.Zero(t, generator.calls)
}

func TestGenerateEndpointMethodNotAllowed(t *testing.T) {
	a := newTestApp(&fakeGenerator{}, &fakeArtifactRepo{})

	req := httptest.NewRequest("GET", "/api/generator/generate", nil)
	rec := httptest.NewRecorder()

	Controller(a.generate).ServeHTTP(rec, req)
	assert.Equal(t, 405, rec.Code)
}

func TestRestoreEndpoint(t *testing.T) {
	generator := &fakeGenerator{result: &domain.GenerationResult{Prompt: "current"}}
	a := newTestApp(generator, &fakeArtifactRepo{})

	a.Versions.Append(domain.VersionInput{Prompt: "older prompt", Platform: "Universal"})
	id := a.Versions.Load()[0].Id

	req := httptest.NewRequest("POST", "/api/generator/restore", strings.NewReader(`{"id": "`+id+`"}`))
	rec := httptest.NewRecorder()

	Controller(a.restore).ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "older prompt", a.Session.Content())

	req = httptest.NewRequest("POST", "/api/generator/restore", strings.NewReader(`{"id": "missing"}`))
	rec = httptest.NewRecorder()

	Controller(a.restore).ServeHTTP(rec, req)
	assert.Equal(t, 404, rec.Code)
}

func TestBoardEndpoint(t *testing.T) {
	artifacts := &fakeArtifactRepo{}
	require.NoError(t, artifacts.Insert(context.Background(),
		domain.Artifact{Id: "a1", Title: "Todo app", Category: "development", Status: domain.StageDraft}))
	require.NoError(t, artifacts.Insert(context.Background(),
		domain.Artifact{Id: "a2", Title: "Logo pack", Category: "design", Status: domain.StageLive}))

	a := newTestApp(&fakeGenerator{}, artifacts)

	req := httptest.NewRequest("GET", "/api/lifecycle/board", nil)
	rec := httptest.NewRecorder()

	Controller(a.board).ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	var resp boardResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Columns, 4)
	assert.Equal(t, 2, resp.Total)

	req = httptest.NewRequest("GET", "/api/lifecycle/board?stage=live&q=logo", nil)
	rec = httptest.NewRecorder()

	Controller(a.board).ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Columns, 1)
	assert.Equal(t, 1, resp.Columns[0].Count)
}

func TestTransitionEndpoint(t *testing.T) {
	artifacts := &fakeArtifactRepo{}
	require.NoError(t, artifacts.Insert(context.Background(),
		domain.Artifact{Id: "a1", Title: "Todo app", Category: "development", Status: domain.StageTesting, QAScore: 91}))

	a := newTestApp(&fakeGenerator{}, artifacts)

	req := httptest.NewRequest("POST", "/api/lifecycle/transition",
		strings.NewReader(`{"id": "a1", "action": "submit-review"}`))
	rec := httptest.NewRecorder()

	Controller(a.transition).ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	var artifact domain.Artifact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &artifact))
	assert.Equal(t, domain.StageReview, artifact.Status)
	assert.Equal(t, 91, artifact.QAScore)

	// publish is illegal from testing
	require.NoError(t, artifacts.UpdateStatus(context.Background(), "a1", domain.StageTesting))

	req = httptest.NewRequest("POST", "/api/lifecycle/transition",
		strings.NewReader(`{"id": "a1", "action": "publish"}`))
	rec = httptest.NewRecorder()

	Controller(a.transition).ServeHTTP(rec, req)
	assert.Equal(t, 409, rec.Code)
}
