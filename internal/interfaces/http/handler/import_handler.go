package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	importapp "github.com/storefront/backoffice/internal/application/import"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/shared"
	"github.com/storefront/backoffice/internal/interfaces/http/dto"
	"github.com/storefront/backoffice/internal/interfaces/http/middleware"
	"golang.org/x/text/language"
)

// ImportJobs is the job service as seen by the HTTP layer
type ImportJobs interface {
	Upload(ctx context.Context, in importapp.UploadInput) (*bulk.UploadReceipt, error)
	Status(ctx context.Context, importID string) (*bulk.ImportJob, error)
	History(ctx context.Context, page shared.Page) (*bulk.HistoryPage, error)
	Delete(ctx context.Context, importID string) error
	Template() (*bulk.Template, error)
}

// ImportHandler serves /admin/import/products
type ImportHandler struct {
	BaseHandler
	jobs        ImportJobs
	maxFileSize int64
	lang        language.Tag
}

// NewImportHandler creates a new ImportHandler. Bodies larger than
// maxFileSize are cut off while reading so the service can reject them.
func NewImportHandler(jobs ImportJobs, maxFileSize int64, lang language.Tag) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = importapp.DefaultMaxFileSize
	}
	return &ImportHandler{jobs: jobs, maxFileSize: maxFileSize, lang: lang}
}

// Upload godoc
//
//	@Summary	Upload a product import file
//	@Tags		import
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"CSV or Excel file"
//	@Success	200		{object}	bulk.UploadReceipt
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	413		{object}	dto.ErrorResponse
//	@Router		/admin/import/products/upload [post]
func (h *ImportHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, bulk.Localize(h.lang, bulk.MsgUploadFailed))
		return
	}

	f, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	// one byte past the cap is enough for the service to report the size
	data, err := io.ReadAll(io.LimitReader(f, h.maxFileSize+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	receipt, err := h.jobs.Upload(c.Request.Context(), importapp.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		UploadedBy:  middleware.GetJWTUsername(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// Status godoc
//
//	@Summary	Get the progress of an import
//	@Tags		import
//	@Produce	json
//	@Param		id	path		string	true	"Import ID"
//	@Success	200	{object}	bulk.ImportJob
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/admin/import/products/status/{id} [get]
func (h *ImportHandler) Status(c *gin.Context) {
	job, err := h.jobs.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// History godoc
//
//	@Summary	List past imports, newest first
//	@Tags		import
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (max 100)"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	bulk.HistoryPage
//	@Router		/admin/import/products/history [get]
func (h *ImportHandler) History(c *gin.Context) {
	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	page, err := h.jobs.History(c.Request.Context(), q.Page())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// DeleteHistory godoc
//
//	@Summary	Delete an import log
//	@Tags		import
//	@Produce	json
//	@Param		id	path		string	true	"Import ID"
//	@Success	200	{object}	dto.MessageResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/admin/import/products/history/{id} [delete]
func (h *ImportHandler) DeleteHistory(c *gin.Context) {
	if err := h.jobs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, bulk.Localize(h.lang, bulk.MsgImportLogDeleted))
}

// Template godoc
//
//	@Summary	Download the sample import file
//	@Tags		import
//	@Produce	json
//	@Success	200	{object}	bulk.Template
//	@Router		/admin/import/products/template [post]
func (h *ImportHandler) Template(c *gin.Context) {
	tmpl, err := h.jobs.Template()
	if err != nil {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, bulk.Localize(h.lang, bulk.MsgTemplateFailed))
		return
	}
	h.Success(c, tmpl)
}
