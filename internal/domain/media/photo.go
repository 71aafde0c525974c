package media

import "time"

type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;index;column:profile_id" json:"profile_id"`
	ImageKey  string    `gorm:"not null;column:image_key" json:"image_key"`
	Date      time.Time `gorm:"not null;index;column:date" json:"date"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Photo) TableName() string { return "photo" }

type PhotoLike struct {
	PhotoID   uint      `gorm:"primaryKey;autoIncrement:false;column:photo_id" json:"photo_id"`
	ProfileID uint      `gorm:"primaryKey;autoIncrement:false;index;column:profile_id" json:"profile_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PhotoLike) TableName() string { return "photo_likes" }
