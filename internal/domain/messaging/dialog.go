package messaging

import "time"

type Dialog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IsGroup   bool      `gorm:"not null;default:false;column:is_group" json:"is_group"`
	Name      string    `gorm:"size:100;column:name" json:"name"`
	ImageKey  string    `gorm:"column:image_key" json:"image_key"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Dialog) TableName() string { return "dialog" }

type DialogParticipant struct {
	DialogID  uint      `gorm:"primaryKey;autoIncrement:false;column:dialog_id" json:"dialog_id"`
	ProfileID uint      `gorm:"primaryKey;autoIncrement:false;index;column:profile_id" json:"profile_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DialogParticipant) TableName() string { return "dialog_participants" }

type Message struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DialogID     uint      `gorm:"not null;index:idx_message_dialog_time;column:dialog_id" json:"dialog_id"`
	FromUserID   uint      `gorm:"not null;index;column:from_user_id" json:"from_user_id"`
	AttachmentID *uint     `gorm:"column:attachment_id" json:"attachment_id"`
	Text         string    `gorm:"type:text;column:text" json:"text"`
	DateAndTime  time.Time `gorm:"not null;index:idx_message_dialog_time;column:date_and_time" json:"date_and_time"`
	IsRead       bool      `gorm:"not null;default:false;column:is_read" json:"is_read"`
}

func (Message) TableName() string { return "message" }

type DialogAttachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DialogID  uint      `gorm:"not null;index;column:dialog_id" json:"dialog_id"`
	FileKey   string    `gorm:"not null;column:file_key" json:"file_key"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DialogAttachment) TableName() string { return "dialog_attachment" }
