package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/models"
	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// PromiscuityHandler serves the promiscuity search endpoints.
type PromiscuityHandler struct {
	svc PromiscuityService
	log *logrus.Logger
}

// NewPromiscuityHandler creates a PromiscuityHandler with the given service and logger.
func NewPromiscuityHandler(svc PromiscuityService, log *logrus.Logger) *PromiscuityHandler {
	return &PromiscuityHandler{svc: svc, log: log}
}

// Score returns a handler for GET /api/v1/promiscuity/{score,dfs-score,naive-score}
// running the given algorithm.
func (h *PromiscuityHandler) Score(alg promiscuity.Algorithm) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindQuery(c)
		if !ok {
			return
		}

		tenantID := getTenantID(c)
		if tenantID == "" {
			return
		}

		resp, err := h.svc.Score(c.Request.Context(), tenantID, alg, q)
		if err != nil {
			h.searchError(c, err, string(alg))

			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// Paths handles GET /api/v1/promiscuity/paths.
func (h *PromiscuityHandler) Paths(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}

	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	resp, err := h.svc.Paths(c.Request.Context(), tenantID, q)
	if err != nil {
		h.searchError(c, err, "top_paths")

		return
	}

	c.JSON(http.StatusOK, resp)
}

func bindQuery(c *gin.Context) (models.PromiscuityQuery, bool) {
	var q models.PromiscuityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "k and n must be integers")

		return q, false
	}

	return q, true
}

// searchError maps a search failure onto a response.
func (h *PromiscuityHandler) searchError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, models.ErrInvalidQuery),
		errors.Is(err, promiscuity.ErrInvalidHopCount),
		errors.Is(err, promiscuity.ErrInvalidResultCount):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, models.ErrNodeNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, promiscuity.ErrBudgetExceeded):
		respondError(c, http.StatusUnprocessableEntity, ErrCodeBudgetExceeded, "search exceeded its work budget; lower k")
	case errors.Is(err, models.ErrSearchTimeout):
		respondError(c, http.StatusGatewayTimeout, ErrCodeSearchTimeout, "search timed out")
	default:
		respondInternal(c, h.log.WithField("algorithm", op), err, "promiscuity search")
	}
}
