package search

import (
	"encoding/json"
	"net/http"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/pkg/logger"
	"github.com/futig/docsearch-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	usecase SearchUsecase
}

func NewHandler(usecase SearchUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Search handles POST /organizations/{org_id}/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "org_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("organization_id", orgID),
		zap.String("action", "Search"),
	)

	var req entity.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.OrganizationID = orgID

	result, err := h.usecase.Run(ctx, &req)
	if err != nil {
		response.UsecaseError(ctx, w, err, "search failed")
		return
	}

	response.Success(w, result)
}
