package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/repository"
)

const (
	defaultCommentLimit = 10
	maxCommentLimit     = 50
)

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// Create adds a comment to a post. Threads are one level deep: replying to a
// reply attaches the comment to the top-level parent and mentions the author
// being answered.
func (s *CommentService) Create(ctx context.Context, postID, userID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	parentID := req.ParentID
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, model.ErrParentOtherPost
		}
		if parent.ParentID != nil {
			parentID = parent.ParentID
			content = "@" + parent.Username + " " + content
		}
	}

	comment := &model.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: parentID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	logger.For("comment").WithFields(logrus.Fields{
		"user_id":    userID,
		"post_id":    postID,
		"comment_id": comment.ID,
	}).Info("comment created")

	return s.comments.GetByID(ctx, comment.ID)
}

// List returns a page of a post's comments, newest first.
func (s *CommentService) List(ctx context.Context, postID int64, cursor *string, limit int) (*model.CommentListResponse, error) {
	if limit <= 0 {
		limit = defaultCommentLimit
	}
	if limit > maxCommentLimit {
		limit = maxCommentLimit
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comments, next, err := s.comments.ListByPost(ctx, postID, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &model.CommentListResponse{
		Comments:   comments,
		NextCursor: next,
		HasMore:    next != nil,
	}, nil
}
