// Package service holds the application's business rules on top of the repositories.
package service

import (
	"context"

	"travelog/internal/cache"
	"travelog/internal/featureflags"
	"travelog/internal/models"
	"travelog/internal/repository"
	"travelog/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	flags    *featureflags.Manager
}

type CreatePostInput struct {
	UserID   uint
	Username string
	Title    string
	PostText string
	ImageURL *string
}

type RenamePostInput struct {
	UserID   uint
	PostID   uint
	NewTitle string
}

type ReplacePostTextInput struct {
	UserID      uint
	PostID      uint
	NewPostText string
}

// UpdatePostInput replaces title and body. A nil ImageURL keeps the current image.
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	PostText string
	ImageURL *string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, flags *featureflags.Manager) *PostService {
	return &PostService{postRepo: postRepo, flags: flags}
}

// AuthorizeEdit allows a mutation only when the requester authored the post.
func AuthorizeEdit(post *models.Post, userID uint) error {
	if post == nil || userID == 0 || post.UserID != userID {
		return models.NewForbiddenError("You can only edit your own posts")
	}
	return nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) ListByUser(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

// GetPost loads one post, through the cache when post_cache is on.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	if !s.flags.On(featureflags.PostCache) {
		return s.postRepo.GetByID(ctx, id)
	}

	var post *models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		var fetchErr error
		post, fetchErr = s.postRepo.GetByID(ctx, id)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	post.EnsureReactions()
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("User not logged in!")
	}
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostText(in.PostText); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:    in.Title,
		PostText: in.PostText,
		Username: in.Username,
		UserID:   in.UserID,
		ImageURL: in.ImageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// loadForEdit fetches a post and checks ownership before any mutation.
func (s *PostService) loadForEdit(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeEdit(post, userID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) RenamePost(ctx context.Context, in RenamePostInput) (string, error) {
	post, err := s.loadForEdit(ctx, in.PostID, in.UserID)
	if err != nil {
		return "", err
	}
	if err := validation.ValidateTitle(in.NewTitle); err != nil {
		return "", models.NewValidationError(err.Error())
	}

	post.Title = in.NewTitle
	if err := s.save(ctx, post); err != nil {
		return "", err
	}
	return post.Title, nil
}

func (s *PostService) ReplacePostText(ctx context.Context, in ReplacePostTextInput) (string, error) {
	post, err := s.loadForEdit(ctx, in.PostID, in.UserID)
	if err != nil {
		return "", err
	}
	if err := validation.ValidatePostText(in.NewPostText); err != nil {
		return "", models.NewValidationError(err.Error())
	}

	post.PostText = in.NewPostText
	if err := s.save(ctx, post); err != nil {
		return "", err
	}
	return post.PostText, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.loadForEdit(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostText(in.PostText); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post.Title = in.Title
	post.PostText = in.PostText
	if in.ImageURL != nil {
		post.ImageURL = in.ImageURL
	}
	if err := s.save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	if _, err := s.loadForEdit(ctx, in.PostID, in.UserID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, in.PostID)
	return nil
}

func (s *PostService) save(ctx context.Context, post *models.Post) error {
	if err := s.postRepo.Update(ctx, post); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}
