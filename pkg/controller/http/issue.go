package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/usecase"
)

// IssueHandler serves the /api/issues routes
type IssueHandler struct {
	issueUC usecase.IssueUseCase
}

// NewIssueHandler creates an issue handler
func NewIssueHandler(issueUC usecase.IssueUseCase) *IssueHandler {
	return &IssueHandler{issueUC: issueUC}
}

type listResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Data    []*model.Issue `json:"data"`
}

type createResponse struct {
	Success    bool              `json:"success"`
	Data       *model.Issue      `json:"data"`
	AIAnalysis *model.AIAnalysis `json:"aiAnalysis"`
}

func issueID(r *http.Request) types.IssueID {
	return types.IssueID(chi.URLParam(r, "id"))
}

// HandleCreate handles POST /api/issues
func (h *IssueHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if authCtx, ok := model.GetAuthContext(r.Context()); ok && req.ReportedBy.IsEmpty() {
		req.ReportedBy = &model.Reporter{Name: authCtx.Name}
	}

	result, err := h.issueUC.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{
		Success:    true,
		Data:       result.Issue,
		AIAnalysis: result.AIAnalysis,
	})
}

// HandleList handles GET /api/issues
func (h *IssueHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.Filter{
		Category: types.Category(q.Get("category")),
		Severity: types.Severity(q.Get("severity")),
		Status:   types.Status(q.Get("status")),
	}

	issues, err := h.issueUC.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if issues == nil {
		issues = []*model.Issue{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Count:   len(issues),
		Data:    issues,
	})
}

// HandleGet handles GET /api/issues/{id}
func (h *IssueHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	issue, err := h.issueUC.Get(r.Context(), issueID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, issue)
}

// HandleUpdate handles PATCH /api/issues/{id}
func (h *IssueHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var update model.IssueUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	issue, err := h.issueUC.Update(r.Context(), issueID(r), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, issue)
}

// HandleDelete handles DELETE /api/issues/{id}
func (h *IssueHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.issueUC.Delete(r.Context(), issueID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Message: "Issue deleted successfully"})
}

// HandleVote handles POST /api/issues/{id}/vote
func (h *IssueHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	issue, err := h.issueUC.Vote(r.Context(), issueID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, issue)
}

// HandleStats handles GET /api/issues/stats
func (h *IssueHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.issueUC.Stats(r.Context())
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to compute stats"))
		return
	}
	writeData(w, http.StatusOK, stats)
}
