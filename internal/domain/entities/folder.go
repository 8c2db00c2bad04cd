package entities

import (
	"time"

	"github.com/google/uuid"
)

// Folder is one node of the per-owner folder forest. ParentID is nil for
// root-level folders. OwnerID never changes after creation.
type Folder struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	OwnerID   int64      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Derived counts, populated on read paths only.
	FileCount      int `json:"file_count"`
	SubfolderCount int `json:"subfolder_count"`
}

// FolderContents is a folder together with its direct children. For the
// synthetic root view the Folder fields are zero except Name.
type FolderContents struct {
	Folder
	Subfolders []*Folder `json:"subfolders"`
	Files      []*File   `json:"files"`
}

// Breadcrumb is one step of the path from a root folder down to a target.
type Breadcrumb struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// FolderTreeNode is one node of the materialized folder tree.
type FolderTreeNode struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Children []*FolderTreeNode `json:"children"`
}
