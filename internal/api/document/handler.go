package document

import (
	"io"
	"net/http"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/pkg/logger"
	"github.com/futig/docsearch-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const fileField = "file"

type Handler struct {
	usecase DocumentUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase DocumentUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// UploadFile handles POST /organizations/{org_id}/files
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "org_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("organization_id", orgID),
		zap.String("action", "UploadFile"),
	)

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	src, header, err := r.FormFile(fileField)
	if err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "file is required", err)
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "failed to read file", err)
		return
	}

	ctxzap.Info(ctx, "ingesting file",
		zap.String("file_name", header.Filename),
		zap.Int64("size", header.Size),
	)

	file, err := h.usecase.Ingest(ctx, &entity.UploadFileRequest{
		OrganizationID: orgID,
		FileName:       header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		Content:        content,
	})
	if err != nil {
		response.UsecaseError(ctx, w, err, "ingestion failed")
		return
	}

	response.Created(w, file)
}

// ListFiles handles GET /organizations/{org_id}/files
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "org_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("organization_id", orgID),
		zap.String("action", "ListFiles"),
	)

	files, err := h.usecase.ListFiles(ctx, orgID)
	if err != nil {
		response.UsecaseError(ctx, w, err, "failed to list files")
		return
	}

	response.Success(w, entity.ListFilesResponse{Files: files})
}

// DeleteFile handles DELETE /organizations/{org_id}/files/{file_id}
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "org_id")
	fileID := chi.URLParam(r, "file_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("organization_id", orgID),
		zap.String("file_id", fileID),
		zap.String("action", "DeleteFile"),
	)

	if err := h.usecase.DeleteFile(ctx, orgID, fileID); err != nil {
		response.UsecaseError(ctx, w, err, "failed to delete file")
		return
	}

	response.NoContent(w)
}
