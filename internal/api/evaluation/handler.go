package evaluation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/pkg/logger"
	"github.com/futig/docsearch-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	usecase EvaluationUsecase
}

func NewHandler(usecase EvaluationUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// GenerateQueries handles POST /organizations/{org_id}/evaluations/queries
func (h *Handler) GenerateQueries(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "org_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("organization_id", orgID),
		zap.String("action", "GenerateQueries"),
	)

	var req entity.GenerateQueriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.OrganizationID = orgID

	cases, err := h.usecase.GenerateTestQueries(ctx, &req)
	if err != nil {
		response.UsecaseError(ctx, w, err, "failed to generate test queries")
		return
	}

	response.Success(w, cases)
}

// RunTests handles POST /organizations/{org_id}/evaluations/runs?format=json|md|pdf|docx
func (h *Handler) RunTests(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "org_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("organization_id", orgID),
		zap.String("action", "RunTests"),
	)

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatJSON
	}
	if !format.Valid() {
		response.Error(ctx, w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format), nil)
		return
	}

	var req entity.RunTestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.OrganizationID = orgID

	result, err := h.usecase.RunSearchTests(ctx, &req)
	if err != nil {
		response.UsecaseError(ctx, w, err, "failed to run search tests")
		return
	}

	if format == entity.FormatJSON {
		response.Success(w, result)
		return
	}

	report, err := h.usecase.RenderReport(result, format)
	if err != nil {
		response.UsecaseError(ctx, w, err, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(report.Data)
}

// SaveGrade handles POST /organizations/{org_id}/grades
func (h *Handler) SaveGrade(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "org_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("organization_id", orgID),
		zap.String("action", "SaveGrade"),
	)

	var grade entity.GradeRecord
	if err := json.NewDecoder(r.Body).Decode(&grade); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	grade.OrganizationID = orgID

	saved, err := h.usecase.SaveGrade(ctx, &grade)
	if err != nil {
		response.UsecaseError(ctx, w, err, "failed to save grade")
		return
	}

	response.Created(w, saved)
}
