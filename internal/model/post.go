package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a community feed entry. Author name/photo are snapshotted at
// creation time for list rendering; they are not live-updated when the
// author later edits their profile.
type Post struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AuthorID    uuid.UUID `json:"author_id" gorm:"type:uuid;index;not null"`
	AuthorName  string    `json:"author_name" gorm:"size:100;not null"`
	AuthorPhoto string    `json:"author_photo,omitempty" gorm:"size:1000"`
	Content     string    `json:"content" gorm:"type:text"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"size:1000"`
	VideoURL    string    `json:"video_url,omitempty" gorm:"size:1000"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Likes    []PostLike `json:"likes,omitempty" gorm:"foreignKey:PostID"`
	Comments []Comment  `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasContent reports whether the post carries any text or media.
// Posts with neither must never be created.
func (p *Post) HasContent() bool {
	return p.Content != "" || p.ImageURL != "" || p.VideoURL != ""
}

// LikedBy reports whether userID is in the loaded like set
func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// LikeUserIDs returns the like set as user ids in insertion order
func (p *Post) LikeUserIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Likes))
	for _, l := range p.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

// PostLike is one row of a post's like set. The unique index gives the
// set its at-most-once membership; liking twice toggles the row away.
type PostLike struct {
	ID        uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;uniqueIndex:idx_post_user_like;not null"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_post_user_like;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Comment is a reply on a post. Author identity is snapshotted like on Post.
type Comment struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID      uuid.UUID `json:"post_id" gorm:"type:uuid;index;not null"`
	AuthorID    uuid.UUID `json:"author_id" gorm:"type:uuid;index;not null"`
	AuthorName  string    `json:"author_name" gorm:"size:100;not null"`
	AuthorPhoto string    `json:"author_photo,omitempty" gorm:"size:1000"`
	Text        string    `json:"text" gorm:"type:text;not null"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
