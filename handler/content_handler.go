package handler

import (
	"errors"
	"strings"

	"github.com/adegamar/backend/dto"
	"github.com/adegamar/backend/usecase"
	"github.com/adegamar/backend/utils"
	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	Store *usecase.ContentStore
}

func NewContentHandler(store *usecase.ContentStore) *ContentHandler {
	return &ContentHandler{Store: store}
}

// logicalPath extracts the logical document path from the wildcard
// route parameter (gin keeps the leading slash).
func logicalPath(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("path"), "/")
}

// List returns the editable document paths.
func (h *ContentHandler) List(c *gin.Context) {
	utils.Success(c, gin.H{"paths": h.Store.AllowedPaths()})
}

// Get returns the document at an allow-listed path, or the allow-list
// itself when the path is empty.
func (h *ContentHandler) Get(c *gin.Context) {
	path := logicalPath(c)
	if path == "" {
		h.List(c)
		return
	}

	data, err := h.Store.Read(path)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPathNotAllowed):
			utils.Forbidden(c, "path not allowed")
		case errors.Is(err, usecase.ErrNotFound):
			utils.NotFound(c, "content file not found")
		default:
			utils.InternalError(c, "Failed to read content")
		}
		return
	}

	utils.Success(c, gin.H{"data": data})
}

// Put overwrites the document at an allow-listed path, snapshotting
// the previous content first.
func (h *ContentHandler) Put(c *gin.Context) {
	var req dto.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	path := logicalPath(c)
	if err := h.Store.Write(path, req.Data); err != nil {
		switch {
		case errors.Is(err, usecase.ErrPathNotAllowed):
			utils.Forbidden(c, "path not allowed")
		case errors.Is(err, usecase.ErrValidation):
			utils.BadRequest(c, "payload is not valid JSON")
		default:
			utils.InternalError(c, "Failed to write content")
		}
		return
	}

	utils.Success(c, gin.H{"message": "Content saved", "path": path})
}
