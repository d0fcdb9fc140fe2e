package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/promptnx/pipeline/internal/domain"
	"github.com/promptnx/pipeline/internal/synthesis"
)

type RequestStatus string

const (
	StatusIdle       RequestStatus = "idle"
	StatusGenerating RequestStatus = "generating"
	StatusSucceeded  RequestStatus = "succeeded"
	StatusFailed     RequestStatus = "failed"
)

// The generation service never gets an unbounded call; a request that would
// otherwise hang forever fails after this deadline and the session stays
// editable.
const defaultGenerationTimeout = 45 * time.Second

type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

type VersionRepo interface {
	Append(input domain.VersionInput) domain.Version
	Load() []domain.Version
	ToggleFavorite(id string)
}

// DraftConfig is the enumerated configuration of one working prompt.
type DraftConfig struct {
	UserInput       string `json:"userInput"`
	PromptType      string `json:"promptType"`
	AiPlatform      string `json:"aiPlatform"`
	OutputFormat    string `json:"outputFormat"`
	Language        string `json:"language"`
	VisualReference string `json:"visualReference,omitempty"`
	ReferenceType   string `json:"referenceType,omitempty"`
}

// Session coordinates one working prompt: current and baseline text, the last
// known score, and the pending-request status. Successful generations write
// through to the version repo; failures leave every field untouched.
type Session struct {
	mu sync.Mutex

	generator Generator
	versions  VersionRepo

	Timeout time.Duration

	config    DraftConfig
	generated string
	original  string
	score     *int
	status    RequestStatus
}

func NewSession(generator Generator, versions VersionRepo) *Session {
	return &Session{
		generator: generator,
		versions:  versions,
		Timeout:   defaultGenerationTimeout,
		config: DraftConfig{
			OutputFormat:  "casual",
			Language:      "english",
			ReferenceType: "none",
		},
		status: StatusIdle,
	}
}

// Configure overwrites the draft configuration. Empty format, language, and
// reference type keep their defaults so a partial update cannot strip them.
func (s *Session) Configure(config DraftConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if config.OutputFormat == "" {
		config.OutputFormat = s.config.OutputFormat
	}
	if config.Language == "" {
		config.Language = s.config.Language
	}
	if config.ReferenceType == "" {
		config.ReferenceType = s.config.ReferenceType
	}

	s.config = config
}

// Generate asks the service for a fresh prompt. Only one request may be in
// flight; a second call while generating is rejected rather than queued.
func (s *Session) Generate(ctx context.Context) (*domain.GenerationResult, error) {
	s.mu.Lock()

	if s.status == StatusGenerating {
		s.mu.Unlock()
		return nil, ErrGenerationInFlight
	}

	userInput := strings.TrimSpace(s.config.UserInput)
	if userInput == "" || s.config.PromptType == "" || s.config.AiPlatform == "" || s.config.OutputFormat == "" {
		s.mu.Unlock()
		return nil, ErrMissingFields
	}

	req := domain.GenerationRequest{
		Mode:            "generate",
		UserInput:       userInput,
		PromptType:      s.config.PromptType,
		AiPlatform:      s.config.AiPlatform,
		OutputFormat:    s.config.OutputFormat,
		Language:        s.config.Language,
		VisualReference: strings.TrimSpace(s.config.VisualReference),
		ReferenceType:   s.config.ReferenceType,
	}
	s.status = StatusGenerating
	s.mu.Unlock()

	return s.complete(ctx, req, false)
}

// Enhance asks the service to improve the current content. Without content to
// improve the call is rejected before reaching the service. Config gaps fall
// back to permissive defaults so enhancement works on a restored prompt too.
func (s *Session) Enhance(ctx context.Context) (*domain.GenerationResult, error) {
	s.mu.Lock()

	if s.status == StatusGenerating {
		s.mu.Unlock()
		return nil, ErrGenerationInFlight
	}

	if s.generated == "" {
		s.mu.Unlock()
		return nil, ErrNothingToEnhance
	}

	userInput := strings.TrimSpace(s.config.UserInput)
	if userInput == "" {
		userInput = "Refine the existing prompt"
	}

	promptType := s.config.PromptType
	if promptType == "" {
		promptType = "app-development"
	}

	aiPlatform := s.config.AiPlatform
	if aiPlatform == "" {
		aiPlatform = "universal"
	}

	req := domain.GenerationRequest{
		Mode:            "enhance",
		UserInput:       userInput,
		PromptType:      promptType,
		AiPlatform:      aiPlatform,
		OutputFormat:    s.config.OutputFormat,
		Language:        s.config.Language,
		VisualReference: strings.TrimSpace(s.config.VisualReference),
		ReferenceType:   s.config.ReferenceType,
		ExistingPrompt:  s.generated,
	}
	s.status = StatusGenerating
	s.mu.Unlock()

	return s.complete(ctx, req, true)
}

func (s *Session) complete(ctx context.Context, req domain.GenerationRequest, carryScore bool) (*domain.GenerationResult, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.generator.Generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = StatusFailed
		return nil, err
	}

	s.generated = result.Prompt
	s.original = result.Prompt
	if result.Score != nil {
		score := *result.Score
		s.score = &score
	} else if !carryScore {
		s.score = nil
	}
	s.status = StatusSucceeded

	s.versions.Append(domain.VersionInput{
		Prompt:   result.Prompt,
		Platform: synthesis.PlatformLabel(req.AiPlatform),
		Score:    copyScore(s.score),
	})

	return result, nil
}

// SetContent records a manual edit of the working text. The baseline is left
// alone so the edit counts as pending.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generated = content
}

// Reset discards pending edits by restoring the baseline. A no-op unless
// edits are actually pending, so hand-typed text on an empty baseline is
// never wiped.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generated == "" || s.original == "" || s.generated == s.original {
		return
	}

	s.generated = s.original
	s.status = StatusIdle
}

// Restore accepts a prior version as the new baseline. No version is appended;
// a pure restore writes nothing to history.
func (s *Session) Restore(version domain.Version) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generated = version.Prompt
	s.original = version.Prompt
	s.status = StatusIdle
}

func (s *Session) HasPendingEdits() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generated != "" && s.original != "" && s.generated != s.original
}

func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generated
}

func (s *Session) Original() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.original
}

func (s *Session) Score() *int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyScore(s.score)
}

func (s *Session) Status() RequestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

func (s *Session) Config() DraftConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.config
}

func copyScore(score *int) *int {
	if score == nil {
		return nil
	}

	c := *score
	return &c
}
