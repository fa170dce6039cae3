package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/repository"
	"gorm.io/gorm"
)

// CommunityService handles the public feed: posts, likes and comments
type CommunityService struct {
	postRepo *repository.PostRepository
	userRepo *repository.UserRepository
}

func NewCommunityService(postRepo *repository.PostRepository, userRepo *repository.UserRepository) *CommunityService {
	return &CommunityService{postRepo: postRepo, userRepo: userRepo}
}

// ==================== Posts ====================

// CreatePost publishes a new feed entry. At least one of text, image or
// video must be present.
func (s *CommunityService) CreatePost(authorID uuid.UUID, req model.CreatePostRequest) (*model.PostResponse, error) {
	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	post := &model.Post{
		AuthorID:    authorID,
		AuthorName:  author.FullName,
		AuthorPhoto: author.ProfilePhoto,
		Content:     strings.TrimSpace(req.Content),
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
	}
	if !post.HasContent() {
		return nil, errors.New("post cannot be empty")
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, errors.New("failed to create post")
	}

	return s.toPostResponse(post, authorID), nil
}

// GetFeed returns the feed newest-first for the viewer
func (s *CommunityService) GetFeed(viewerID uuid.UUID) ([]model.PostResponse, error) {
	posts, err := s.postRepo.ListFeed(100)
	if err != nil {
		return nil, err
	}

	result := make([]model.PostResponse, 0, len(posts))
	for i := range posts {
		result = append(result, *s.toPostResponse(&posts[i], viewerID))
	}
	return result, nil
}

// GetPost returns a single post with likes and comments
func (s *CommunityService) GetPost(postID, viewerID uuid.UUID) (*model.PostResponse, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, errors.New("post not found")
	}
	return s.toPostResponse(post, viewerID), nil
}

// DeletePost removes a post. Only the author or an admin may do this;
// the check is enforced here, never trusted to the client.
func (s *CommunityService) DeletePost(postID, userID uuid.UUID) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return errors.New("post not found")
	}

	if post.AuthorID != userID {
		user, err := s.userRepo.FindByID(userID)
		if err != nil || !user.IsAdmin() {
			return errors.New("you can only delete your own posts")
		}
	}

	return s.postRepo.Delete(postID)
}

// ==================== Likes ====================

// ToggleLike flips the viewer's membership in the post's like set and
// returns the updated post. Applying it twice restores the original state.
func (s *CommunityService) ToggleLike(postID, userID uuid.UUID) (*model.PostResponse, error) {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, errors.New("post not found")
	}

	_, err := s.postRepo.FindLike(postID, userID)
	switch {
	case err == nil:
		if err := s.postRepo.RemoveLike(postID, userID); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := &model.PostLike{PostID: postID, UserID: userID}
		if err := s.postRepo.AddLike(like); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.GetPost(postID, userID)
}

// ==================== Comments ====================

// AddComment appends a comment with the author's identity snapshotted
func (s *CommunityService) AddComment(postID, authorID uuid.UUID, text string) (*model.PostResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("comment cannot be empty")
	}

	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, errors.New("post not found")
	}

	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	comment := &model.Comment{
		PostID:      postID,
		AuthorID:    authorID,
		AuthorName:  author.FullName,
		AuthorPhoto: author.ProfilePhoto,
		Text:        text,
	}
	if err := s.postRepo.AddComment(comment); err != nil {
		return nil, errors.New("failed to add comment")
	}

	return s.GetPost(postID, authorID)
}

// DeleteComment removes a comment. Allowed for the comment author, the
// post author, or an admin.
func (s *CommunityService) DeleteComment(commentID, userID uuid.UUID) error {
	comment, err := s.postRepo.FindComment(commentID)
	if err != nil {
		return errors.New("comment not found")
	}

	if comment.AuthorID != userID {
		allowed := false
		if post, err := s.postRepo.FindByID(comment.PostID); err == nil && post.AuthorID == userID {
			allowed = true
		}
		if !allowed {
			user, err := s.userRepo.FindByID(userID)
			if err != nil || !user.IsAdmin() {
				return errors.New("you can only delete your own comments")
			}
		}
	}

	return s.postRepo.DeleteComment(commentID)
}

// ==================== Internal Helpers ====================

func (s *CommunityService) toPostResponse(post *model.Post, viewerID uuid.UUID) *model.PostResponse {
	return &model.PostResponse{
		Post:        *post,
		LikeUserIDs: post.LikeUserIDs(),
		LikedByMe:   post.LikedBy(viewerID),
	}
}
