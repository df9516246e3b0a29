package db

import (
	"time"
)

// DefaultProfilePicture is the picture reference every new user starts with.
const DefaultProfilePicture = "default.jpg"

// Identifiable is anything with a stable user identity the session layer can bind to.
type Identifiable interface {
	Identity() uint64
}

// User table
type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	Username       string    `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash   string    `gorm:"size:255;not null"`
	Gender         string    `gorm:"size:10;not null;index"`
	Bio            string    `gorm:"size:500;not null;default:''"`
	ProfilePicture string    `gorm:"size:150;not null;default:'default.jpg'"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (u User) Identity() uint64 { return u.ID }

// Like is a directed "liker liked liked" edge.
//
// Composite PK: (LikerID, LikedID)
//   - One row per ordered pair, so re-liking cannot create a duplicate.
//
// Indexes:
//   - idx_likes_liked(liked_id, liker_id)
//     Serves "who liked me" lookups and the reverse side of the match join.
type Like struct {
	LikerID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	LikedID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_likes_liked,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message is an immutable direct message. CreatedAt is the message timestamp.
type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	SenderID    uint64    `gorm:"not null;index"`
	RecipientID uint64    `gorm:"not null;index"`
	Body        string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`

	Sender    User `gorm:"foreignKey:SenderID"`
	Recipient User `gorm:"foreignKey:RecipientID"`
}

// Models lists every table in migration order.
func Models() []any {
	return []any{&User{}, &Like{}, &Message{}}
}
