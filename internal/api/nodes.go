package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/models"
)

// NodeHandler serves node CRUD endpoints.
type NodeHandler struct {
	svc NodeService
	log *logrus.Logger
}

// NewNodeHandler creates a NodeHandler with the given service and logger.
func NewNodeHandler(svc NodeService, log *logrus.Logger) *NodeHandler {
	return &NodeHandler{svc: svc, log: log}
}

// List handles GET /api/v1/nodes.
func (h *NodeHandler) List(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	f := models.NodeFilter{
		Type:   c.Query("type"),
		Limit:  parseLimit(c.DefaultQuery("limit", "50"), 50),
		Offset: parseOffset(c.DefaultQuery("offset", "0")),
	}

	nodes, hasMore, err := h.svc.ListNodes(c.Request.Context(), tenantID, f)
	if err != nil {
		respondInternal(c, h.log, err, "listing nodes")

		return
	}

	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "has_more": hasMore})
}

// Get handles GET /api/v1/nodes/:id.
func (h *NodeHandler) Get(c *gin.Context) {
	nodeID := c.Param("id")
	if err := validatePathID(nodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	node, err := h.svc.GetNode(c.Request.Context(), tenantID, nodeID)
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

			return
		}

		respondInternal(c, h.log, err, "getting node")

		return
	}

	c.JSON(http.StatusOK, node)
}

// Create handles POST /api/v1/nodes.
func (h *NodeHandler) Create(c *gin.Context) {
	var req models.CreateNodeRequest
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

	node, err := h.svc.CreateNode(c.Request.Context(), tenantID, req)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			respondError(c, http.StatusConflict, ErrCodeConflict, "node with this ID already exists")

			return
		}

		respondInternal(c, h.log, err, "creating node")

		return
	}

	c.JSON(http.StatusCreated, node)
}

// Delete handles DELETE /api/v1/nodes/:id. Incident edges go with the node.
func (h *NodeHandler) Delete(c *gin.Context) {
	nodeID := c.Param("id")
	if err := validatePathID(nodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	if err := h.svc.DeleteNode(c.Request.Context(), tenantID, nodeID); err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

			return
		}

		respondInternal(c, h.log, err, "deleting node")

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
