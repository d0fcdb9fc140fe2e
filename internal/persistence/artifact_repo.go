package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/promptnx/pipeline/internal/domain"
)

// ArtifactRepo is the lifecycle artifact provider, backed by a Supabase-style
// REST collection.
type ArtifactRepo struct {
	BaseHeaders []string
	BaseUrl     string
	Client      *http.Client
}

func (r ArtifactRepo) List(ctx context.Context) ([]domain.Artifact, error) {
	records, err := request[[]domain.Artifact](ctx, r.Client, reqConfig{
		Method:    "GET",
		Url:       r.BaseUrl,
		UrlParams: []string{"select=*", "order=last_updated.desc"},
		Headers:   r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	if records == nil {
		return []domain.Artifact{}, nil
	}

	return *records, nil
}

func (r ArtifactRepo) Insert(ctx context.Context, artifact domain.Artifact) error {
	body, err := json.Marshal(artifact)

	if err != nil {
		return err
	}

	_, err = request[domain.Artifact](ctx, r.Client, reqConfig{
		Method:  "POST",
		Url:     r.BaseUrl,
		Body:    body,
		Headers: append(r.BaseHeaders, "Content-Type:application/json")},
		201)

	if err != nil {
		return err
	}

	return nil
}

func (r ArtifactRepo) UpdateStatus(ctx context.Context, id string, status domain.Stage) error {
	body := []byte(fmt.Sprintf(`{"status": "%s", "last_updated": "%s"}`,
		status, time.Now().UTC().Format(time.RFC3339)))

	_, err := request[domain.Artifact](ctx, r.Client, reqConfig{
		Method:    "PATCH",
		Url:       r.BaseUrl,
		UrlParams: []string{fmt.Sprintf("id=eq.%s", id)},
		Body:      body,
		Headers:   append(r.BaseHeaders, "Content-Type:application/json")},
		204)

	if err != nil {
		return err
	}

	return nil
}

func (r ArtifactRepo) UpdateQAScore(ctx context.Context, id string, score int) error {
	body := []byte(fmt.Sprintf(`{"qa_score": %d, "last_updated": "%s"}`,
		score, time.Now().UTC().Format(time.RFC3339)))

	_, err := request[domain.Artifact](ctx, r.Client, reqConfig{
		Method:    "PATCH",
		Url:       r.BaseUrl,
		UrlParams: []string{fmt.Sprintf("id=eq.%s", id)},
		Body:      body,
		Headers:   append(r.BaseHeaders, "Content-Type:application/json")},
		204)

	if err != nil {
		return err
	}

	return nil
}
