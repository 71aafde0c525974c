package academic

import "time"

type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;column:name" json:"name"`
	TeacherID uint      `gorm:"not null;index;column:teacher_id" json:"teacher_id"`
	ManagerID uint      `gorm:"not null;index;column:manager_id" json:"manager_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Group) TableName() string { return "study_group" }

// GroupMember links a profile to a group. Students in a group form its roster.
type GroupMember struct {
	GroupID   uint      `gorm:"primaryKey;autoIncrement:false;column:group_id" json:"group_id"`
	ProfileID uint      `gorm:"primaryKey;autoIncrement:false;index;column:profile_id" json:"profile_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (GroupMember) TableName() string { return "profile_group_list" }
