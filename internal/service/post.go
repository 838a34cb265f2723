package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/repository"
)

type PostService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create publishes a post by userID. The slug is derived from the title and
// suffixed with a counter when already taken.
func (s *PostService) Create(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.Post, error) {
	post := &model.Post{
		UserID:   &userID,
		ArtistID: req.ArtistID,
		Title:    req.Title,
		Content:  req.Content,
	}

	err := withUniqueSlug(slugFor(req.Title, "post"), func(candidate string) error {
		post.Slug = candidate
		return s.posts.Create(ctx, post)
	})
	if err != nil {
		return nil, err
	}

	logger.For("post").WithFields(logrus.Fields{
		"user_id": userID,
		"post_id": post.ID,
	}).Info("post created")
	return post, nil
}

// Get returns the post with live counts. IsLiked is set only for a viewer.
func (s *PostService) Get(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error) {
	return s.posts.GetByID(ctx, postID, viewerID)
}
