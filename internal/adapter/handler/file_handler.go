package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rivetsoft/filedock/internal/domain/repository"
	"github.com/rivetsoft/filedock/internal/usecase"
)

// FileHandler handles upload, listing, metadata, and content delivery.
type FileHandler struct {
	files *usecase.FileUseCase
}

func NewFileHandler(files *usecase.FileUseCase) *FileHandler {
	return &FileHandler{files: files}
}

// RegisterRoutes registers file routes. The public slug route skips
// authentication entirely.
func (h *FileHandler) RegisterRoutes(router *gin.Engine, authRequired gin.HandlerFunc) {
	files := router.Group("/api/files", authRequired)
	files.POST("/upload", h.Upload)
	files.GET("", h.List)
	files.GET("/:id", h.GetFile)
	files.PUT("/:id", h.UpdateVisibility)
	files.PATCH("/:id", h.UpdateFile)
	files.PUT("/:id/move", h.Move)
	files.DELETE("/:id", h.DeleteFile)
	files.GET("/download/:id", h.Download)
	files.GET("/view/:id", h.View)

	router.GET("/api/public/:slug", h.Public)
}

func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	input := usecase.UploadInput{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		IsPublic:    c.PostForm("is_public") == "true",
		CustomName:  c.PostForm("custom_name"),
		Description: c.PostForm("description"),
		FileType:    c.PostForm("file_type"),
		Tags:        c.PostForm("tags"),
	}
	if raw := c.PostForm("folder_id"); raw != "" {
		folderID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder_id"})
			return
		}
		input.FolderID = &folderID
	}

	file, err := h.files.Upload(c.Request.Context(), currentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

// List returns one page of files. folder_id accepts a folder UUID or
// the literal "root" for root-level files only.
func (h *FileHandler) List(c *gin.Context) {
	input := usecase.ListFilesInput{
		FileType: c.Query("file_type"),
		Search:   c.Query("search"),
		Tags:     c.Query("tags"),
	}
	// Clamp up front so the echoed page values match the ones used.
	input.Page, input.PerPage = repository.NormalizePage(
		intQuery(c, "page", 1), intQuery(c, "per_page", repository.DefaultPerPage))
	if raw := c.Query("is_public"); raw != "" {
		isPublic := raw == "true"
		input.IsPublic = &isPublic
	}
	switch raw := c.Query("folder_id"); raw {
	case "":
	case "root":
		input.RootOnly = true
	default:
		folderID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder_id"})
			return
		}
		input.FolderID = &folderID
	}

	items, total, err := h.files.List(c.Request.Context(), currentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"files":    items,
		"total":    total,
		"page":     input.Page,
		"per_page": input.PerPage,
	})
}

func (h *FileHandler) GetFile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	file, err := h.files.Get(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

type updateVisibilityRequest struct {
	IsPublic    *bool   `json:"is_public"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
	FileType    *string `json:"file_type"`
	CustomName  string  `json:"custom_name"`
}

func (h *FileHandler) UpdateVisibility(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	file, err := h.files.UpdateVisibility(c.Request.Context(), currentActor(c), id, usecase.UpdateVisibilityInput{
		IsPublic:    req.IsPublic,
		Description: req.Description,
		Tags:        req.Tags,
		FileType:    req.FileType,
		CustomName:  req.CustomName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

type updateFileRequest struct {
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
	FileType    *string `json:"file_type"`
}

// UpdateFile patches metadata only; visibility is left alone.
func (h *FileHandler) UpdateFile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	file, err := h.files.Update(c.Request.Context(), currentActor(c), id, usecase.UpdateFileInput{
		Description: req.Description,
		Tags:        req.Tags,
		FileType:    req.FileType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

type moveFileRequest struct {
	FolderID *uuid.UUID `json:"folder_id"`
}

// Move relocates a file; a null or absent folder_id moves it to root.
func (h *FileHandler) Move(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req moveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	file, err := h.files.Move(c.Request.Context(), currentActor(c), id, req.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

func (h *FileHandler) DeleteFile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.files.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

func (h *FileHandler) Download(c *gin.Context) {
	h.serveContent(c, "attachment")
}

func (h *FileHandler) View(c *gin.Context) {
	h.serveContent(c, "inline")
}

func (h *FileHandler) serveContent(c *gin.Context, disposition string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	file, data, contentType, err := h.files.FetchContent(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.OriginalName))
	c.Data(http.StatusOK, contentType, data)
}

// Public serves a public file by slug with no authentication, inline.
func (h *FileHandler) Public(c *gin.Context) {
	file, data, contentType, err := h.files.FetchPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.OriginalName))
	c.Data(http.StatusOK, contentType, data)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
