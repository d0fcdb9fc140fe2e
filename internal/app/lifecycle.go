package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promptnx/pipeline/internal/domain"
)

type ArtifactRepo interface {
	List(ctx context.Context) ([]domain.Artifact, error)
	Insert(ctx context.Context, artifact domain.Artifact) error
	UpdateStatus(ctx context.Context, id string, status domain.Stage) error
	UpdateQAScore(ctx context.Context, id string, score int) error
}

// Lifecycle computes which stage transitions are legal and hands their
// execution to the artifact provider. The in-memory artifact only changes
// after the provider accepted the update, so an artifact is never observed
// between stages.
type Lifecycle struct {
	Artifacts ArtifactRepo
}

func NextStage(stage domain.Stage) (domain.Stage, bool) {
	switch stage {
	case domain.StageDraft:
		return domain.StageTesting, true
	case domain.StageTesting:
		return domain.StageReview, true
	case domain.StageReview:
		return domain.StageLive, true
	default:
		return "", false
	}
}

func CanTransition(from domain.Stage, to domain.Stage) bool {
	if next, ok := NextStage(from); ok && next == to {
		return true
	}

	// Rejected reviews go back to the draft pile for rework. This is the
	// only backward edge.
	return from == domain.StageReview && to == domain.StageDraft
}

// SaveDraft creates a new artifact in the draft stage.
func (l Lifecycle) SaveDraft(ctx context.Context, title string, category string) (domain.Artifact, error) {
	artifact := domain.Artifact{
		Id:          uuid.New().String(),
		Title:       title,
		Category:    category,
		Status:      domain.StageDraft,
		LastUpdated: time.Now().UTC(),
	}

	err := l.Artifacts.Insert(ctx, artifact)

	if err != nil {
		return domain.Artifact{}, err
	}

	return artifact, nil
}

func (l Lifecycle) StartTesting(ctx context.Context, artifact *domain.Artifact) error {
	return l.transition(ctx, artifact, domain.StageTesting)
}

func (l Lifecycle) SubmitForReview(ctx context.Context, artifact *domain.Artifact) error {
	return l.transition(ctx, artifact, domain.StageReview)
}

func (l Lifecycle) Publish(ctx context.Context, artifact *domain.Artifact) error {
	return l.transition(ctx, artifact, domain.StageLive)
}

// Reject returns an artifact that failed marketplace review to the draft
// stage.
func (l Lifecycle) Reject(ctx context.Context, artifact *domain.Artifact) error {
	return l.transition(ctx, artifact, domain.StageDraft)
}

// RecordTestResult persists the QA score produced by the testing stage. The
// score is a display signal only; SubmitForReview does not gate on it.
func (l Lifecycle) RecordTestResult(ctx context.Context, artifact *domain.Artifact, score int) error {
	err := l.Artifacts.UpdateQAScore(ctx, artifact.Id, score)

	if err != nil {
		return err
	}

	artifact.QAScore = score
	artifact.LastUpdated = time.Now().UTC()
	return nil
}

func (l Lifecycle) transition(ctx context.Context, artifact *domain.Artifact, to domain.Stage) error {
	if !CanTransition(artifact.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, artifact.Status, to)
	}

	err := l.Artifacts.UpdateStatus(ctx, artifact.Id, to)

	if err != nil {
		return err
	}

	artifact.Status = to
	artifact.LastUpdated = time.Now().UTC()
	return nil
}
