package models

import "github.com/google/uuid"

type File struct {
	BaseModel
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	FileName     string    `json:"fileName" gorm:"type:varchar(255);not null"`
	Size         int64     `json:"size" gorm:"not null;default:0"`
	ContentType  string    `json:"contentType" gorm:"type:varchar(100);not null"`
	StorageKey   string    `json:"storageKey" gorm:"type:text;not null"`
	StorageURL   string    `json:"storageUrl" gorm:"type:text;not null"`
	ThumbnailKey *string   `json:"-" gorm:"type:text"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty" gorm:"type:text"`
	OwnerID      uuid.UUID `json:"ownerId" gorm:"type:uuid;not null;index"`

	Owner *FileOwner `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

// FileOwner is the public projection of a user embedded in catalogue results.
type FileOwner struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

func (FileOwner) TableName() string {
	return "users"
}
