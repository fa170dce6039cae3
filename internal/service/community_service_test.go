package service

import (
	"testing"

	"github.com/nahidkabir/shongi/internal/model"
)

func TestCreatePostRequiresContent(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author@example.com")

	if _, err := env.community.CreatePost(author.ID, model.CreatePostRequest{Content: "   "}); err == nil {
		t.Fatal("expected whitespace-only post to be rejected")
	}

	// Media alone is enough
	post, err := env.community.CreatePost(author.ID, model.CreatePostRequest{
		ImageURL: "https://cdn.example.com/pic.jpg",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Content != "" {
		t.Errorf("content = %q, want empty", post.Content)
	}
}

func TestCreatePostSnapshotsAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author@example.com", func(u *model.User) {
		u.FullName = "Fatema Begum"
		u.ProfilePhoto = "https://cdn.example.com/old.jpg"
	})

	post, err := env.community.CreatePost(author.ID, model.CreatePostRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// A later profile edit leaves the snapshot untouched
	author.FullName = "Changed Name"
	if err := env.userRepo.Update(author); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, err := env.community.GetPost(post.ID, author.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if stored.AuthorName != "Fatema Begum" {
		t.Errorf("author snapshot = %q, want Fatema Begum", stored.AuthorName)
	}
}

func TestToggleLikeIsInvolution(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author@example.com")
	liker := env.createUser(t, "liker@example.com")

	post, err := env.community.CreatePost(author.ID, model.CreatePostRequest{Content: "like me"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	liked, err := env.community.ToggleLike(post.ID, liker.ID)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if !liked.LikedByMe || len(liked.LikeUserIDs) != 1 {
		t.Errorf("after first toggle: likedByMe=%v likes=%d, want true/1", liked.LikedByMe, len(liked.LikeUserIDs))
	}

	unliked, err := env.community.ToggleLike(post.ID, liker.ID)
	if err != nil {
		t.Fatalf("second ToggleLike failed: %v", err)
	}
	if unliked.LikedByMe || len(unliked.LikeUserIDs) != 0 {
		t.Errorf("after second toggle: likedByMe=%v likes=%d, want false/0", unliked.LikedByMe, len(unliked.LikeUserIDs))
	}
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author@example.com")
	commenter := env.createUser(t, "commenter@example.com", func(u *model.User) {
		u.FullName = "Kamal Hossain"
	})

	post, err := env.community.CreatePost(author.ID, model.CreatePostRequest{Content: "comment here"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if _, err := env.community.AddComment(post.ID, commenter.ID, "  "); err == nil {
		t.Fatal("expected empty comment to be rejected")
	}

	updated, err := env.community.AddComment(post.ID, commenter.ID, "চমৎকার!")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(updated.Comments))
	}
	if updated.Comments[0].AuthorName != "Kamal Hossain" {
		t.Errorf("comment author = %q, want Kamal Hossain", updated.Comments[0].AuthorName)
	}
}

func TestDeletePostOwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author@example.com")
	other := env.createUser(t, "other@example.com")
	admin := env.createUser(t, "admin@example.com", func(u *model.User) {
		u.Role = model.RoleAdmin
	})

	post, err := env.community.CreatePost(author.ID, model.CreatePostRequest{Content: "one"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := env.community.DeletePost(post.ID, other.ID); err == nil {
		t.Fatal("expected delete by a third party to fail")
	}
	if err := env.community.DeletePost(post.ID, author.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	second, err := env.community.CreatePost(author.ID, model.CreatePostRequest{Content: "two"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if err := env.community.DeletePost(second.ID, admin.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}

	feed, err := env.community.GetFeed(author.ID)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("feed size = %d, want 0", len(feed))
	}
}

func TestDeleteCommentPermissions(t *testing.T) {
	env := newTestEnv(t)
	postAuthor := env.createUser(t, "author@example.com")
	commenter := env.createUser(t, "commenter@example.com")
	stranger := env.createUser(t, "stranger@example.com")

	post, err := env.community.CreatePost(postAuthor.ID, model.CreatePostRequest{Content: "moderated"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	withComment, err := env.community.AddComment(post.ID, commenter.ID, "first")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	commentID := withComment.Comments[0].ID

	if err := env.community.DeleteComment(commentID, stranger.ID); err == nil {
		t.Fatal("expected stranger delete to fail")
	}
	// The post author moderates comments on their own post
	if err := env.community.DeleteComment(commentID, postAuthor.ID); err != nil {
		t.Fatalf("post author delete failed: %v", err)
	}
}

func TestFeedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author@example.com")

	first, err := env.community.CreatePost(author.ID, model.CreatePostRequest{Content: "older"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	second, err := env.community.CreatePost(author.ID, model.CreatePostRequest{Content: "newer"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	feed, err := env.community.GetFeed(author.ID)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("feed size = %d, want 2", len(feed))
	}
	if feed[0].ID != second.ID || feed[1].ID != first.ID {
		t.Error("expected the feed to be ordered newest first")
	}
}
