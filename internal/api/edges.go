package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/models"
)

// EdgeHandler serves edge CRUD endpoints.
type EdgeHandler struct {
	svc EdgeService
	log *logrus.Logger
}

// NewEdgeHandler creates an EdgeHandler with the given service and logger.
func NewEdgeHandler(svc EdgeService, log *logrus.Logger) *EdgeHandler {
	return &EdgeHandler{svc: svc, log: log}
}

// List handles GET /api/v1/edges. ?node= matches either endpoint.
func (h *EdgeHandler) List(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	f := models.EdgeFilter{
		Node:     c.Query("node"),
		Relation: c.Query("relation"),
		Limit:    parseLimit(c.DefaultQuery("limit", "50"), 50),
		Offset:   parseOffset(c.DefaultQuery("offset", "0")),
	}

	edges, hasMore, err := h.svc.ListEdges(c.Request.Context(), tenantID, f)
	if err != nil {
		respondInternal(c, h.log, err, "listing edges")

		return
	}

	c.JSON(http.StatusOK, gin.H{"edges": edges, "has_more": hasMore})
}

// Create handles POST /api/v1/edges.
func (h *EdgeHandler) Create(c *gin.Context) {
	var req models.CreateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	edge, err := h.svc.CreateEdge(c.Request.Context(), tenantID, req)
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

			return
		}

		if errors.Is(err, models.ErrDuplicateKey) {
			respondError(c, http.StatusConflict, ErrCodeConflict, "edge with this source/target/relation already exists")

			return
		}

		respondInternal(c, h.log, err, "creating edge")

		return
	}

	c.JSON(http.StatusCreated, edge)
}

// Delete handles DELETE /api/v1/edges/:source/:target/:relation.
func (h *EdgeHandler) Delete(c *gin.Context) {
	source := c.Param("source")
	target := c.Param("target")
	relation := c.Param("relation")

	for _, pair := range []struct{ name, val string }{{"source", source}, {"target", target}, {"relation", relation}} {
		if err := validatePathID(pair.val); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid "+pair.name+": "+err.Error())
			return
		}
	}

	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	if err := h.svc.DeleteEdge(c.Request.Context(), tenantID, source, target, relation); err != nil {
		if errors.Is(err, models.ErrEdgeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "edge not found")

			return
		}

		respondInternal(c, h.log, err, "deleting edge")

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
