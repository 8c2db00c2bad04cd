package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rivetsoft/filedock/internal/usecase"
)

// FolderHandler handles the folder tree endpoints.
type FolderHandler struct {
	folders *usecase.FolderUseCase
}

func NewFolderHandler(folders *usecase.FolderUseCase) *FolderHandler {
	return &FolderHandler{folders: folders}
}

// RegisterRoutes registers folder routes. Fixed paths come before the
// :id routes so "tree" and "contents" are never parsed as identifiers.
func (h *FolderHandler) RegisterRoutes(router *gin.Engine, authRequired gin.HandlerFunc) {
	folders := router.Group("/api/folders", authRequired)
	folders.POST("", h.CreateFolder)
	folders.GET("/tree", h.GetTree)
	folders.GET("/contents", h.GetContents)
	folders.GET("/:id", h.GetFolder)
	folders.GET("/:id/breadcrumbs", h.GetBreadcrumbs)
	folders.PUT("/:id", h.UpdateFolder)
	folders.DELETE("/:id", h.DeleteFolder)
}

type createFolderRequest struct {
	Name     string     `json:"name" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (h *FolderHandler) CreateFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder name is required"})
		return
	}

	folder, err := h.folders.CreateFolder(c.Request.Context(), currentActor(c), req.Name, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

func (h *FolderHandler) GetFolder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	folder, err := h.folders.GetFolder(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

// GetContents lists a folder's immediate subfolders and files. Without
// a folder_id query parameter it serves the root-level view.
func (h *FolderHandler) GetContents(c *gin.Context) {
	var folderID *uuid.UUID
	if raw := c.Query("folder_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder_id"})
			return
		}
		folderID = &id
	}

	contents, err := h.folders.GetContents(c.Request.Context(), currentActor(c), folderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contents)
}

func (h *FolderHandler) GetBreadcrumbs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	breadcrumbs, err := h.folders.GetBreadcrumbs(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"breadcrumbs": breadcrumbs})
}

func (h *FolderHandler) GetTree(c *gin.Context) {
	tree, err := h.folders.GetTree(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tree": tree})
}

type updateFolderRequest struct {
	Name     *string    `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (h *FolderHandler) UpdateFolder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	folder, err := h.folders.UpdateFolder(c.Request.Context(), currentActor(c), id, usecase.UpdateFolderInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recursive := c.Query("recursive") == "true"

	if err := h.folders.DeleteFolder(c.Request.Context(), currentActor(c), id, recursive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Folder deleted successfully"})
}
