package casefile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carewise/triage-api/internal/handler"
	"github.com/carewise/triage-api/internal/middleware"
	"github.com/carewise/triage-api/internal/model"
	"github.com/carewise/triage-api/internal/service/casefile"
)

type Handler struct {
	service casefile.CaseService
}

func NewHandler(service casefile.CaseService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cases := r.Group("/cases")
	{
		cases.POST("", h.SaveCase)
		cases.GET("", h.ListCases)
		cases.GET("/:id", h.GetCase)
	}
}

// SaveCase is the explicit, all-or-nothing persistence step for a pending
// case. The handler never retries; duplicate-save protection lives in
// the submitting client.
func (h *Handler) SaveCase(c *gin.Context) {
	var req model.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID := middleware.UserIDFromContext(c)

	saved, err := h.service.SaveCase(c.Request.Context(), userID, &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(saved))
}

func (h *Handler) GetCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid case ID"))
		return
	}

	result, err := h.service.GetCase(c.Request.Context(), id)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) ListCases(c *gin.Context) {
	var filters model.CaseFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	cases, err := h.service.ListCases(c.Request.Context(), &filters)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(cases))
}
