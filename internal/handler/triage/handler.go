package triage

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carewise/triage-api/internal/model"
	"github.com/carewise/triage-api/internal/service/triage"
)

type Handler struct {
	service *triage.Service
}

func NewHandler(service *triage.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/analyze", h.Analyze)
}

// Analyze always answers HTTP 200 with a TriageAssessment body - real or
// fallback - so the client renders every outcome through one path. The
// single exception is missing symptoms, the caller-input error, which
// gets a 400 with an error field.
func (h *Handler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	assessment, err := h.service.Analyze(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, triage.ErrEmptySymptoms) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "symptoms are required"})
			return
		}
		// Unreachable today: the service absorbs every other failure
		// into the fallback assessment.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assessment)
}
