package repository

import (
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"gorm.io/gorm"
)

// PostRepository handles database operations for community posts
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post
func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// FindByID finds a post with its likes and comments
func (r *PostRepository) FindByID(id uuid.UUID) (*model.Post, error) {
	var post model.Post
	err := r.db.
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListFeed returns the feed newest-first with likes and comments preloaded
func (r *PostRepository) ListFeed(limit int) ([]model.Post, error) {
	var posts []model.Post
	q := r.db.
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&posts).Error
	return posts, err
}

// FindLike returns the like row for (post, user) if it exists
func (r *PostRepository) FindLike(postID, userID uuid.UUID) (*model.PostLike, error) {
	var like model.PostLike
	err := r.db.
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// AddLike inserts a like row
func (r *PostRepository) AddLike(like *model.PostLike) error {
	return r.db.Create(like).Error
}

// RemoveLike deletes the like row for (post, user)
func (r *PostRepository) RemoveLike(postID, userID uuid.UUID) error {
	return r.db.
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.PostLike{}).Error
}

// AddComment inserts a comment
func (r *PostRepository) AddComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// FindComment finds a comment by ID
func (r *PostRepository) FindComment(commentID uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment soft-deletes a comment
func (r *PostRepository) DeleteComment(commentID uuid.UUID) error {
	return r.db.Where("id = ?", commentID).Delete(&model.Comment{}).Error
}

// Delete removes a post together with its likes and comments
func (r *PostRepository) Delete(postID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).
			Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).
			Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", postID).Delete(&model.Post{}).Error
	})
}

// DeleteAllByAuthor removes every post authored by userID, with their
// likes and comments. Part of the admin account-deletion cascade.
func (r *PostRepository) DeleteAllByAuthor(userID uuid.UUID) error {
	var postIDs []uuid.UUID
	if err := r.db.Model(&model.Post{}).
		Where("author_id = ?", userID).
		Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	for _, id := range postIDs {
		if err := r.Delete(id); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of live posts
func (r *PostRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Count(&count).Error
	return count, err
}
