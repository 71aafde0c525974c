package user

import "time"

// ProfileFriend is one direction of a friendship; both directions are stored.
type ProfileFriend struct {
	ProfileID uint      `gorm:"primaryKey;autoIncrement:false;column:profile_id" json:"profile_id"`
	FriendID  uint      `gorm:"primaryKey;autoIncrement:false;index;column:friend_id" json:"friend_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ProfileFriend) TableName() string { return "profile_friends" }

type FriendRequest struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FromProfileID uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair;column:from_profile_id" json:"from_profile_id"`
	ToProfileID   uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair;index;column:to_profile_id" json:"to_profile_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (FriendRequest) TableName() string { return "friend_request" }

type ProfileFollower struct {
	ProfileID  uint      `gorm:"primaryKey;autoIncrement:false;column:profile_id" json:"profile_id"`
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false;index;column:follower_id" json:"follower_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (ProfileFollower) TableName() string { return "profile_followers" }
