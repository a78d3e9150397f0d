package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// RootParentID marks a record attached directly to the root of a user's
// tree. Non-root parents are ObjectID hex strings referencing a folder
// record owned by the same user.
const RootParentID = "0"

// File is a metadata record. LocalPath points at the on-disk bytes and is
// empty for folders; it is never serialized to clients.
type File struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Type      FileType           `bson:"type" json:"type"`
	IsPublic  bool               `bson:"isPublic" json:"isPublic"`
	ParentID  string             `bson:"parentId" json:"parentId"`
	LocalPath string             `bson:"localPath,omitempty" json:"-"`
}
