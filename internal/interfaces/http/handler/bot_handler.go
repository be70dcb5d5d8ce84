package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/shared"
	"github.com/storefront/backoffice/internal/interfaces/http/dto"
	"github.com/storefront/backoffice/internal/interfaces/http/middleware"
	"golang.org/x/text/language"
)

// BotPanel is the bot service as seen by the HTTP layer
type BotPanel interface {
	BotStatus(ctx context.Context) (*bulk.BotStatus, error)
	BotHistory(ctx context.Context, page shared.Page) (*bulk.HistoryPage, error)
	DeleteBotHistory(ctx context.Context, importID string) error
}

// BotHandler serves /bot
type BotHandler struct {
	BaseHandler
	bot  BotPanel
	lang language.Tag
}

// NewBotHandler creates a new BotHandler
func NewBotHandler(bot BotPanel, lang language.Tag) *BotHandler {
	return &BotHandler{bot: bot, lang: lang}
}

// Status returns the aggregated bot and importer statistics
func (h *BotHandler) Status(c *gin.Context) {
	status, err := h.bot.BotStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// History lists imports with their durations
func (h *BotHandler) History(c *gin.Context) {
	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	page, err := h.bot.BotHistory(c.Request.Context(), q.Page())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// DeleteHistory removes one import log
func (h *BotHandler) DeleteHistory(c *gin.Context) {
	if err := h.bot.DeleteBotHistory(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, bulk.Localize(h.lang, bulk.MsgImportLogDeleted))
}
