package app

import (
	"strings"

	"github.com/promptnx/pipeline/internal/domain"
)

// ArtifactCard wraps an artifact with its board visibility flags: metrics are
// shown only once the artifact has views, a QA score only when positive.
type ArtifactCard struct {
	domain.Artifact
	ShowMetrics bool `json:"show_metrics"`
	ShowQAScore bool `json:"show_qa_score"`
}

type BoardColumn struct {
	Stage       domain.Stage   `json:"stage"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Count       int            `json:"count"`
	Prompts     []ArtifactCard `json:"prompts"`
}

var boardStages = []BoardColumn{
	{Stage: domain.StageDraft, Title: "Drafts", Description: "Work in progress prompts"},
	{Stage: domain.StageTesting, Title: "Testing", Description: "Running automated QA scenarios"},
	{Stage: domain.StageReview, Title: "Under Review", Description: "Waiting for Marketplace approval"},
	{Stage: domain.StageLive, Title: "Live in Marketplace", Description: "Generating revenue right now"},
}

// AggregateBoard partitions artifacts into the four fixed stage columns.
func AggregateBoard(artifacts []domain.Artifact) []BoardColumn {
	columns := make([]BoardColumn, len(boardStages))
	for i, proto := range boardStages {
		columns[i] = proto
		columns[i].Prompts = []ArtifactCard{}
	}

	for _, artifact := range artifacts {
		for i := range columns {
			if columns[i].Stage == artifact.Status {
				columns[i].Prompts = append(columns[i].Prompts, newCard(artifact))
				columns[i].Count++
				break
			}
		}
	}

	return columns
}

// FilterBoard projects the columns down to a single stage, or all of them.
// Pure: artifact status is never touched.
func FilterBoard(columns []BoardColumn, stage string) []BoardColumn {
	if stage == "" || stage == "all" {
		return columns
	}

	filtered := make([]BoardColumn, 0, 1)
	for _, column := range columns {
		if string(column.Stage) == stage {
			filtered = append(filtered, column)
		}
	}

	return filtered
}

// SearchBoard keeps cards whose title or category contains the query,
// case-insensitively. Column identity is preserved so counts stay per stage.
func SearchBoard(columns []BoardColumn, query string) []BoardColumn {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return columns
	}

	result := make([]BoardColumn, len(columns))
	for i, column := range columns {
		matched := []ArtifactCard{}
		for _, card := range column.Prompts {
			if strings.Contains(strings.ToLower(card.Title), query) ||
				strings.Contains(strings.ToLower(card.Category), query) {
				matched = append(matched, card)
			}
		}

		column.Prompts = matched
		column.Count = len(matched)
		result[i] = column
	}

	return result
}

func newCard(artifact domain.Artifact) ArtifactCard {
	return ArtifactCard{
		Artifact:    artifact,
		ShowMetrics: artifact.Metrics != nil && artifact.Metrics.Views > 0,
		ShowQAScore: artifact.QAScore > 0,
	}
}
