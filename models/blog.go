package models

import "time"

type Blog struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Slug         string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Content      string       `gorm:"type:text" json:"content"`
	ThumbnailURL string       `gorm:"type:varchar(512)" json:"thumbnailUrl"`
	CategoryID   uint         `gorm:"not null;index" json:"categoryId"`
	Category     BlogCategory `gorm:"foreignKey:CategoryID" json:"category"`
	AuthorID     uint         `gorm:"not null" json:"authorId"`
	Author       User         `gorm:"foreignKey:AuthorID" json:"-"`
	Published    bool         `gorm:"not null;default:false" json:"published"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
