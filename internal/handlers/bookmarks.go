package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"linknest/internal/services"

	"github.com/gin-gonic/gin"
)

type CreateFolderRequest struct {
	Name     string `json:"name" binding:"required"`
	Color    string `json:"color"`
	ParentID *uint  `json:"parent_id"` // defaults to the root folder
}

type CreateBookmarkRequest struct {
	Name     string `json:"name" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Color    string `json:"color"`
	FolderID *uint  `json:"folder_id"` // defaults to the root folder
}

type EditFolderRequest struct {
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	ParentID *uint   `json:"parent_id"`
}

type EditBookmarkRequest struct {
	Name     *string `json:"name"`
	URL      *string `json:"url"`
	Color    *string `json:"color"`
	FolderID *uint   `json:"folder_id"`
}

type MoveItemRequest struct {
	BookmarkIDs    []uint `json:"bookmark_ids"`
	FolderIDs      []uint `json:"folder_ids"`
	TargetFolderID uint   `json:"target_folder_id" binding:"required"`
}

// GetFolder returns a folder with its immediate bookmarks and
// subfolders. The id "root" resolves the caller's root folder.
func (h *Handler) GetFolder(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	param := c.Param("id")
	var folderID uint
	if param == "root" {
		root, err := h.bookmarkService.RootFolder(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load root folder"})
			return
		}
		folderID = root.ID
	} else {
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder id"})
			return
		}
		folderID = uint(id)
	}

	folder, err := h.bookmarkService.GetFolder(userID, folderID)
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder": folder})
}

// GetAllBookmarks returns the full tree from the root, for the
// folder-picker UI.
func (h *Handler) GetAllBookmarks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tree, err := h.bookmarkService.Tree(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookmarks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tree": tree})
}

func (h *Handler) CreateFolder(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parentID, ok := h.resolveParent(c, userID, req.ParentID)
	if !ok {
		return
	}

	folder, err := h.bookmarkService.CreateFolder(userID, req.Name, req.Color, parentID)
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"folder": folder})
}

func (h *Handler) CreateBookmark(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.ValidateDestination(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folderID, ok := h.resolveParent(c, userID, req.FolderID)
	if !ok {
		return
	}

	bookmark, err := h.bookmarkService.CreateBookmark(userID, req.Name, req.URL, req.Color, folderID)
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bookmark": bookmark})
}

// MoveItem reparents bookmarks and/or folders onto a target folder.
func (h *Handler) MoveItem(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.BookmarkIDs) == 0 && len(req.FolderIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to move"})
		return
	}

	if len(req.BookmarkIDs) > 0 {
		if err := h.bookmarkService.MoveBookmarks(userID, req.BookmarkIDs, req.TargetFolderID); err != nil {
			h.bookmarkError(c, err)
			return
		}
	}
	if len(req.FolderIDs) > 0 {
		if err := h.bookmarkService.MoveFolders(userID, req.FolderIDs, req.TargetFolderID); err != nil {
			h.bookmarkError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Moved"})
}

func (h *Handler) EditFolder(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder id"})
		return
	}

	var req EditFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.bookmarkService.EditFolder(userID, uint(id), req.Name, req.Color, req.ParentID)
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder": folder})
}

func (h *Handler) EditBookmark(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark id"})
		return
	}

	var req EditBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.URL != nil {
		if err := services.ValidateDestination(*req.URL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	bookmark, err := h.bookmarkService.EditBookmark(userID, uint(id), req.Name, req.URL, req.Color, req.FolderID)
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmark": bookmark})
}

func (h *Handler) DeleteFolder(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder id"})
		return
	}

	if err := h.bookmarkService.DeleteFolder(userID, uint(id)); err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Folder deleted"})
}

func (h *Handler) DeleteBookmark(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark id"})
		return
	}

	if err := h.bookmarkService.DeleteBookmark(userID, uint(id)); err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bookmark deleted"})
}

// resolveParent maps a nil folder id to the caller's root folder.
func (h *Handler) resolveParent(c *gin.Context, userID uint, id *uint) (uint, bool) {
	if id != nil {
		return *id, true
	}
	root, err := h.bookmarkService.RootFolder(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load root folder"})
		return 0, false
	}
	return root.ID, true
}

func (h *Handler) bookmarkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFolderNotFound), errors.Is(err, services.ErrBookmarkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrFolderCycle), errors.Is(err, services.ErrRootImmutable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
