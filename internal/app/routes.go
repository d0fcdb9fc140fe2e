package app

import (
	"errors"
	"net/http"

	"github.com/promptnx/pipeline/internal/domain"
)

type contentReq struct {
	Content string `json:"content"`
}

type restoreReq struct {
	Id string `json:"id"`
}

type favoriteReq struct {
	Id string `json:"id"`
}

type draftReq struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type transitionReq struct {
	Id     string `json:"id"`
	Action string `json:"action"`
}

type testResultReq struct {
	Id    string `json:"id"`
	Score int    `json:"score"`
}

type sessionResp struct {
	Prompt       string        `json:"prompt"`
	Score        *int          `json:"score,omitempty"`
	Status       RequestStatus `json:"status"`
	PendingEdits bool          `json:"pending_edits"`
	Message      string        `json:"message,omitempty"`
	Notice       string        `json:"notice,omitempty"`
}

type versionListing struct {
	Versions []domain.Version `json:"versions"`
}

type boardResp struct {
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
}

const offlineNotice = "Offline generator used. Start the backend server to switch back to live AI."

func errResp(err error) *AppResp {
	config := errConfigFor(err)
	return &AppResp{Error: err, Message: config.Msg, Code: config.Code}
}

// Service failures carry the service's own error text; everything the session
// classifies itself maps through the error config table.
func generationErrResp(err error) *AppResp {
	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrNothingToEnhance),
		errors.Is(err, ErrGenerationInFlight):
		return errResp(err)
	default:
		return &AppResp{Error: err, Message: err.Error(), Code: 502}
	}
}

func methodResp() *AppResp {
	config := get405()
	return &AppResp{Message: config.Msg, Code: config.Code}
}

func (a App) sessionResp(message string, notice string) sessionResp {
	return sessionResp{
		Prompt:       a.Session.Content(),
		Score:        a.Session.Score(),
		Status:       a.Session.Status(),
		PendingEdits: a.Session.HasPendingEdits(),
		Message:      message,
		Notice:       notice,
	}
}

func (a App) generate(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	config, err := readBody[DraftConfig](r.Body)

	if err != nil {
		return errResp(err)
	}

	a.Session.Configure(*config)

	result, err := a.Session.Generate(r.Context())

	if err != nil {
		return generationErrResp(err)
	}

	notice := ""
	if result.Fallback {
		notice = offlineNotice
	}

	return &AppResp{Code: 200, Body: a.sessionResp("Prompt generated successfully!", notice)}
}

func (a App) enhance(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	result, err := a.Session.Enhance(r.Context())

	if err != nil {
		return generationErrResp(err)
	}

	notice := ""
	if result.Fallback {
		notice = offlineNotice
	}

	return &AppResp{Code: 200, Body: a.sessionResp("Prompt enhanced successfully!", notice)}
}

func (a App) content(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	body, err := readBody[contentReq](r.Body)

	if err != nil {
		return errResp(err)
	}

	a.Session.SetContent(body.Content)

	return &AppResp{Code: 200, Body: a.sessionResp("", "")}
}

func (a App) reset(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	a.Session.Reset()

	return &AppResp{Code: 200, Body: a.sessionResp("", "")}
}

func (a App) restore(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	body, err := readBody[restoreReq](r.Body)

	if err != nil {
		return errResp(err)
	}

	for _, version := range a.Versions.Load() {
		if version.Id == body.Id {
			a.Session.Restore(version)
			return &AppResp{Code: 200, Body: a.sessionResp("Version restored", "")}
		}
	}

	return errResp(ErrVersionNotFound)
}

func (a App) session(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodGet {
		return methodResp()
	}

	return &AppResp{Code: 200, Body: a.sessionResp("", "")}
}

func (a App) versions(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodGet {
		return methodResp()
	}

	return &AppResp{Code: 200, Body: versionListing{Versions: a.Versions.Load()}}
}

func (a App) favorite(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	body, err := readBody[favoriteReq](r.Body)

	if err != nil {
		return errResp(err)
	}

	a.Versions.ToggleFavorite(body.Id)

	return &AppResp{Code: 204}
}

func (a App) board(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodGet {
		return methodResp()
	}

	artifacts, err := a.Lifecycle.Artifacts.List(r.Context())

	if err != nil {
		return errResp(err)
	}

	columns := AggregateBoard(artifacts)
	columns = SearchBoard(columns, r.URL.Query().Get("q"))
	columns = FilterBoard(columns, r.URL.Query().Get("stage"))

	return &AppResp{Code: 200, Body: boardResp{Columns: columns, Total: len(artifacts)}}
}

func (a App) saveDraft(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	body, err := readBody[draftReq](r.Body)

	if err != nil {
		return errResp(err)
	}

	artifact, err := a.Lifecycle.SaveDraft(r.Context(), body.Title, body.Category)

	if err != nil {
		return errResp(err)
	}

	return &AppResp{Code: 201, Body: artifact}
}

func (a App) transition(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	body, err := readBody[transitionReq](r.Body)

	if err != nil {
		return errResp(err)
	}

	artifact, err := a.findArtifact(r, body.Id)

	if err != nil {
		return errResp(err)
	}

	switch body.Action {
	case "start-test":
		err = a.Lifecycle.StartTesting(r.Context(), artifact)
	case "submit-review":
		err = a.Lifecycle.SubmitForReview(r.Context(), artifact)
	case "publish":
		err = a.Lifecycle.Publish(r.Context(), artifact)
	case "reject":
		err = a.Lifecycle.Reject(r.Context(), artifact)
	default:
		return &AppResp{Message: "unknown lifecycle action", Code: 400}
	}

	if err != nil {
		return errResp(err)
	}

	return &AppResp{Code: 200, Body: artifact}
}

func (a App) testResult(w http.ResponseWriter, r *http.Request) *AppResp {
	if r.Method != http.MethodPost {
		return methodResp()
	}

	body, err := readBody[testResultReq](r.Body)

	if err != nil {
		return errResp(err)
	}

	artifact, err := a.findArtifact(r, body.Id)

	if err != nil {
		return errResp(err)
	}

	err = a.Lifecycle.RecordTestResult(r.Context(), artifact, body.Score)

	if err != nil {
		return errResp(err)
	}

	return &AppResp{Code: 200, Body: artifact}
}

func (a App) findArtifact(r *http.Request, id string) (*domain.Artifact, error) {
	artifacts, err := a.Lifecycle.Artifacts.List(r.Context())

	if err != nil {
		return nil, err
	}

	for i := range artifacts {
		if artifacts[i].Id == id {
			return &artifacts[i], nil
		}
	}

	return nil, ErrArtifactNotFound
}
