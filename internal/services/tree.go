package services

import (
	"errors"
	"fmt"

	"linknest/internal/models"

	"gorm.io/gorm"
)

var (
	ErrFolderNotFound   = errors.New("folder not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrRootImmutable    = errors.New("the root folder cannot be moved or deleted")
	ErrFolderCycle      = errors.New("cannot move a folder into itself or its own subtree")
)

// BookmarkService owns the per-user folder tree. Every folder except
// the root has a parent; reparenting is only accepted when it keeps
// the tree a tree.
type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

// RootFolder returns the user's root folder, creating it on first use.
func (s *BookmarkService) RootFolder(userID uint) (*models.BookmarkFolder, error) {
	var root models.BookmarkFolder
	err := s.db.Where("user_id = ? AND parent_id IS NULL", userID).First(&root).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		root = models.BookmarkFolder{UserID: userID, Name: "Bookmarks"}
		if err := s.db.Create(&root).Error; err != nil {
			return nil, err
		}
		return &root, nil
	}
	if err != nil {
		return nil, err
	}
	return &root, nil
}

// GetFolder loads a folder with its immediate bookmarks and subfolders.
func (s *BookmarkService) GetFolder(userID, folderID uint) (*models.BookmarkFolder, error) {
	var folder models.BookmarkFolder
	err := s.db.Preload("Bookmarks").Preload("Subfolders").
		Where("id = ? AND user_id = ?", folderID, userID).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// Tree returns the full folder tree from the root. Two queries, then
// assembled in memory; per-user folder counts are small.
func (s *BookmarkService) Tree(userID uint) (*models.BookmarkFolder, error) {
	root, err := s.RootFolder(userID)
	if err != nil {
		return nil, err
	}

	var folders []models.BookmarkFolder
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&folders).Error; err != nil {
		return nil, err
	}

	var bookmarks []models.Bookmark
	folderIDs := make([]uint, 0, len(folders))
	for _, f := range folders {
		folderIDs = append(folderIDs, f.ID)
	}
	if err := s.db.Where("folder_id IN ?", folderIDs).Order("id").Find(&bookmarks).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.BookmarkFolder, len(folders))
	children := make(map[uint][]uint)
	for _, f := range folders {
		byID[f.ID] = f
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}
	marks := make(map[uint][]models.Bookmark)
	for _, b := range bookmarks {
		marks[b.FolderID] = append(marks[b.FolderID], b)
	}

	var build func(id uint) models.BookmarkFolder
	build = func(id uint) models.BookmarkFolder {
		node := byID[id]
		node.Bookmarks = marks[id]
		for _, childID := range children[id] {
			node.Subfolders = append(node.Subfolders, build(childID))
		}
		return node
	}

	tree := build(root.ID)
	return &tree, nil
}

// CreateFolder creates a folder under parentID, which must belong to
// the same user.
func (s *BookmarkService) CreateFolder(userID uint, name, color string, parentID uint) (*models.BookmarkFolder, error) {
	var parent models.BookmarkFolder
	if err := s.db.Where("id = ? AND user_id = ?", parentID, userID).First(&parent).Error; err != nil {
		return nil, ErrFolderNotFound
	}

	folder := models.BookmarkFolder{
		UserID:   userID,
		Name:     name,
		Color:    color,
		ParentID: &parent.ID,
	}
	if err := s.db.Create(&folder).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// CreateBookmark creates a bookmark in folderID, which must belong to
// the same user.
func (s *BookmarkService) CreateBookmark(userID uint, name, url, color string, folderID uint) (*models.Bookmark, error) {
	var folder models.BookmarkFolder
	if err := s.db.Where("id = ? AND user_id = ?", folderID, userID).First(&folder).Error; err != nil {
		return nil, ErrFolderNotFound
	}

	bookmark := models.Bookmark{
		FolderID: folder.ID,
		Name:     name,
		URL:      url,
		Color:    color,
	}
	if err := s.db.Create(&bookmark).Error; err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// MoveBookmarks reassigns bookmarks to targetID. Bookmarks are leaves,
// so no cycle concerns; only ownership of both ends is checked.
func (s *BookmarkService) MoveBookmarks(userID uint, bookmarkIDs []uint, targetID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var target models.BookmarkFolder
		if err := tx.Where("id = ? AND user_id = ?", targetID, userID).First(&target).Error; err != nil {
			return ErrFolderNotFound
		}

		for _, id := range bookmarkIDs {
			res := tx.Model(&models.Bookmark{}).
				Where("bookmarks.id = ? AND folder_id IN (?)", id,
					tx.Model(&models.BookmarkFolder{}).Select("id").Where("user_id = ?", userID)).
				Update("folder_id", target.ID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrBookmarkNotFound
			}
		}
		return nil
	})
}

// MoveFolders reparents folders onto targetID. The ancestor walk and
// the write happen in one transaction so a concurrent move cannot
// slip a cycle past the check.
func (s *BookmarkService) MoveFolders(userID uint, folderIDs []uint, targetID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var target models.BookmarkFolder
		if err := tx.Where("id = ? AND user_id = ?", targetID, userID).First(&target).Error; err != nil {
			return ErrFolderNotFound
		}

		for _, id := range folderIDs {
			var folder models.BookmarkFolder
			if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&folder).Error; err != nil {
				return ErrFolderNotFound
			}
			if folder.ParentID == nil {
				return ErrRootImmutable
			}
			if err := ensureNotDescendant(tx, userID, folder.ID, target.ID); err != nil {
				return err
			}
			if err := tx.Model(&folder).Update("parent_id", target.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ensureNotDescendant walks from target up to the root and fails if it
// passes through folderID (or starts there).
func ensureNotDescendant(tx *gorm.DB, userID, folderID, targetID uint) error {
	current := targetID
	for depth := 0; ; depth++ {
		if current == folderID {
			return ErrFolderCycle
		}

		var node models.BookmarkFolder
		if err := tx.Select("id", "parent_id").Where("id = ? AND user_id = ?", current, userID).First(&node).Error; err != nil {
			return ErrFolderNotFound
		}
		if node.ParentID == nil {
			return nil // reached the root
		}
		current = *node.ParentID

		if depth > 1000 {
			return fmt.Errorf("folder tree too deep or corrupted at folder %d", current)
		}
	}
}

// EditFolder renames, recolors and/or reparents a folder. Reparenting
// goes through the same cycle check as MoveFolders.
func (s *BookmarkService) EditFolder(userID, folderID uint, name, color *string, parentID *uint) (*models.BookmarkFolder, error) {
	var folder models.BookmarkFolder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", folderID, userID).First(&folder).Error; err != nil {
			return ErrFolderNotFound
		}

		updates := map[string]interface{}{}
		if name != nil {
			updates["name"] = *name
		}
		if color != nil {
			updates["color"] = *color
		}
		if parentID != nil {
			if folder.ParentID == nil {
				return ErrRootImmutable
			}
			var target models.BookmarkFolder
			if err := tx.Where("id = ? AND user_id = ?", *parentID, userID).First(&target).Error; err != nil {
				return ErrFolderNotFound
			}
			if err := ensureNotDescendant(tx, userID, folder.ID, target.ID); err != nil {
				return err
			}
			updates["parent_id"] = target.ID
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&folder).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// EditBookmark renames, recolors, re-urls and/or moves a bookmark.
func (s *BookmarkService) EditBookmark(userID, bookmarkID uint, name, url, color *string, folderID *uint) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("bookmarks.id = ? AND folder_id IN (?)", bookmarkID,
				tx.Model(&models.BookmarkFolder{}).Select("id").Where("user_id = ?", userID)).
			First(&bookmark).Error; err != nil {
			return ErrBookmarkNotFound
		}

		updates := map[string]interface{}{}
		if name != nil {
			updates["name"] = *name
		}
		if url != nil {
			updates["url"] = *url
		}
		if color != nil {
			updates["color"] = *color
		}
		if folderID != nil {
			var target models.BookmarkFolder
			if err := tx.Where("id = ? AND user_id = ?", *folderID, userID).First(&target).Error; err != nil {
				return ErrFolderNotFound
			}
			updates["folder_id"] = target.ID
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&bookmark).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// DeleteFolder removes a folder, all folders beneath it and every
// bookmark they contain, in one transaction.
func (s *BookmarkService) DeleteFolder(userID, folderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var folder models.BookmarkFolder
		if err := tx.Where("id = ? AND user_id = ?", folderID, userID).First(&folder).Error; err != nil {
			return ErrFolderNotFound
		}
		if folder.ParentID == nil {
			return ErrRootImmutable
		}

		// Collect the subtree breadth-first.
		subtree := []uint{folder.ID}
		frontier := []uint{folder.ID}
		for len(frontier) > 0 {
			var children []models.BookmarkFolder
			if err := tx.Select("id").Where("parent_id IN ? AND user_id = ?", frontier, userID).Find(&children).Error; err != nil {
				return err
			}
			frontier = frontier[:0]
			for _, c := range children {
				subtree = append(subtree, c.ID)
				frontier = append(frontier, c.ID)
			}
		}

		if err := tx.Where("folder_id IN ?", subtree).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", subtree).Delete(&models.BookmarkFolder{}).Error
	})
}

// DeleteBookmark removes a single bookmark owned by the user.
func (s *BookmarkService) DeleteBookmark(userID, bookmarkID uint) error {
	res := s.db.
		Where("bookmarks.id = ? AND folder_id IN (?)", bookmarkID,
			s.db.Model(&models.BookmarkFolder{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}
