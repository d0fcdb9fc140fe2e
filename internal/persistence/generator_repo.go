package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/promptnx/pipeline/internal/app"
	"github.com/promptnx/pipeline/internal/domain"
	"github.com/promptnx/pipeline/internal/synthesis"
)

type generatorMetadata struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type generatorResp struct {
	Success  bool               `json:"success"`
	Prompt   string             `json:"prompt"`
	Score    *int               `json:"score"`
	Error    string             `json:"error,omitempty"`
	Metadata *generatorMetadata `json:"metadata,omitempty"`
}

// GeneratorRepo adapts the external prompt-generation service. Unreachable or
// unsuccessful calls degrade to the local synthesizer when LocalFallback is
// set; otherwise the service's error text is surfaced as-is.
type GeneratorRepo struct {
	BaseHeaders   []string
	BaseUrl       string
	Client        *http.Client
	Limiter       *rate.Limiter
	LocalFallback bool
}

func (r GeneratorRepo) Generate(ctx context.Context, genReq domain.GenerationRequest) (*domain.GenerationResult, error) {
	if r.Limiter != nil {
		err := r.Limiter.Wait(ctx)
		if err != nil {
			return r.fallbackOrErr(genReq, err)
		}
	}

	body, err := json.Marshal(genReq)

	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.BaseUrl, bytes.NewBuffer(body))

	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("X-Request-Id", uuid.New().String())
	for i := 0; i < len(r.BaseHeaders); i++ {
		headerKV := strings.SplitN(r.BaseHeaders[i], ":", 2)
		req.Header.Add(strings.TrimSpace(headerKV[0]), strings.TrimSpace(headerKV[1]))
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)

	if err != nil {
		return r.fallbackOrErr(genReq, err)
	}

	content, err := app.Read(resp.Body)

	if err != nil {
		return r.fallbackOrErr(genReq, errors.New("invalid response from prompt service"))
	}

	record, err := app.ReadJSON[generatorResp](content)

	if err != nil {
		return r.fallbackOrErr(genReq, errors.New("invalid response from prompt service"))
	}

	if resp.StatusCode != 200 || !record.Success {
		msg := record.Error
		if msg == "" {
			msg = "failed to generate prompt"
		}
		return r.fallbackOrErr(genReq, errors.New(msg))
	}

	result := domain.GenerationResult{Prompt: record.Prompt, Score: record.Score}
	if record.Metadata != nil {
		result.Fallback = record.Metadata.Fallback
		result.Provider = record.Metadata.Provider
		result.Model = record.Metadata.Model
		result.Reason = record.Metadata.Reason
	}

	return &result, nil
}

func (r GeneratorRepo) fallbackOrErr(genReq domain.GenerationRequest, cause error) (*domain.GenerationResult, error) {
	if !r.LocalFallback {
		return nil, cause
	}

	slog.Warn(fmt.Sprintf("Falling back to local prompt synthesis: %s", cause.Error()))

	result := synthesis.Synthesize(genReq, cause.Error())
	return &result, nil
}
