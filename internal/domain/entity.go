package domain

import "time"

// Stage is one of the four ordered lifecycle partitions an artifact belongs to.
type Stage string

const (
	StageDraft   Stage = "draft"
	StageTesting Stage = "testing"
	StageReview  Stage = "review"
	StageLive    Stage = "live"
)

// Version is an immutable snapshot of generated or edited prompt text.
type Version struct {
	Id         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Prompt     string    `json:"prompt"`
	Platform   string    `json:"platform"`
	Score      *int      `json:"score,omitempty"`
	IsFavorite bool      `json:"is_favorite"`
}

// VersionInput carries the caller-supplied fields of a snapshot; id and
// timestamp are assigned by the store.
type VersionInput struct {
	Prompt   string
	Platform string
	Score    *int
}

type Metrics struct {
	Views          int     `json:"views"`
	Sales          int     `json:"sales"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Artifact is a sellable prompt entity tracked through lifecycle stages.
// Metrics appear only once the artifact has been exposed to buyers.
type Artifact struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Status      Stage     `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
	Metrics     *Metrics  `json:"metrics,omitempty"`
	QAScore     int       `json:"qa_score,omitempty"`
}

// GenerationRequest is the wire shape consumed by the external generation service.
type GenerationRequest struct {
	Mode            string `json:"mode"`
	UserInput       string `json:"userInput"`
	PromptType      string `json:"promptType"`
	AiPlatform      string `json:"aiPlatform"`
	OutputFormat    string `json:"outputFormat"`
	Language        string `json:"language"`
	VisualReference string `json:"visualReference,omitempty"`
	ReferenceType   string `json:"referenceType,omitempty"`
	ExistingPrompt  string `json:"existingPrompt,omitempty"`
}

type GenerationResult struct {
	Prompt   string
	Score    *int
	Fallback bool
	Provider string
	Model    string
	Reason   string
}
