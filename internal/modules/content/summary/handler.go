package summary

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quicky-ai/quicky-core/internal/middleware"
	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
	"github.com/quicky-ai/quicky-core/internal/pkg/pagination"
	"github.com/quicky-ai/quicky-core/internal/pkg/response"
	"github.com/quicky-ai/quicky-core/internal/pkg/textutil"
)

const sourcePreviewChars = 100

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the summary endpoints. summarizeMW runs before the
// summarize handler only (rate limit, optional auth).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, summarizeMW ...gin.HandlerFunc) {
	rg.POST("/summarize", append(summarizeMW, h.summarize)...)
	rg.POST("/summary/:id/like", h.like)
	rg.GET("/summaries/:session_id", h.listBySession)
}

func (h *Handler) summarize(c *gin.Context) {
	var dto summarizeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, apperr.Wrap(apperr.KindValidation, apperr.CodeMissingFields, apperr.MsgMissingFields, err))
		return
	}

	result, err := h.svc.Summarize(c.Request.Context(), Request{
		ContentType:   dto.ContentType,
		ContentSource: dto.ContentSource,
		Format:        dto.Format,
		SessionID:     dto.SessionID,
		UserID:        middleware.CurrentUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, summarizeResponse{
		Success:   true,
		Summary:   result.Summary,
		SessionID: result.SessionID,
		SummaryID: result.SummaryID,
		Cached:    result.Cached,
	})
}

func (h *Handler) like(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFoundMsg(c, apperr.MsgSummaryNotFound)
		return
	}

	liked, err := h.svc.ToggleLike(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"success": true, "liked": liked})
}

func (h *Handler) listBySession(c *gin.Context) {
	var page *pagination.Query
	if q, ok := pagination.FromContext(c); ok {
		page = &q
	}
	rows, meta, err := h.svc.ListBySession(c.Request.Context(), c.Param("session_id"), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]listItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, listItem{
			ID:            row.ID,
			ContentType:   row.ContentType,
			ContentSource: textutil.Preview(row.ContentSource, sourcePreviewChars),
			SummaryFormat: row.SummaryFormat,
			SummaryText:   row.SummaryText,
			Liked:         row.Liked,
			CreatedAt:     row.CreatedAt,
		})
	}
	body := gin.H{"success": true, "summaries": items}
	if meta != nil {
		body["pagination"] = meta
	}
	response.OK(c, body)
}
