package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createExport(c *gin.Context) {
	result, err := h.exports.Export(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"key":      result.Key,
		"location": result.Location,
		"url":      result.URL,
		"count":    result.Count,
	})
}

func (h *Handler) listExports(c *gin.Context) {
	objects, err := h.exports.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteExports(c *gin.Context) {
	if err := h.exports.DeleteAll(c.Request.Context(), currentUserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exports deleted successfully"})
}
