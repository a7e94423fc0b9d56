package service

import (
	"context"
	"strconv"

	"travelog/internal/cache"
	"travelog/internal/models"
	"travelog/internal/observability"
	"travelog/internal/repository"
)

type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
}

// ReactionCounts is the post's tally after a toggle.
type ReactionCounts struct {
	PostID        uint  `json:"post_id"`
	LikesCount    int64 `json:"likes_count"`
	DislikesCount int64 `json:"dislikes_count"`
}

// UserReactions lists everything one user has liked or disliked.
type UserReactions struct {
	LikedPosts    []models.Like    `json:"likedPosts"`
	DislikedPosts []models.Dislike `json:"dislikedPosts"`
}

func NewReactionService(reactionRepo repository.ReactionRepository, postRepo repository.PostRepository) *ReactionService {
	return &ReactionService{reactionRepo: reactionRepo, postRepo: postRepo}
}

// Toggle flips the user's reaction of one kind on a post and reports whether
// it is active afterwards. Likes and dislikes are toggled independently.
func (s *ReactionService) Toggle(ctx context.Context, kind models.ReactionKind, postID, userID uint) (bool, error) {
	if userID == 0 {
		return false, models.NewUnauthorizedError("User not logged in!")
	}
	if !kind.Valid() {
		return false, models.NewValidationError("Invalid reaction")
	}
	if postID == 0 {
		return false, models.NewValidationError("PostId is required")
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, models.NewNotFoundError("Post", postID)
	}

	found, err := s.reactionRepo.Exists(ctx, kind, postID, userID)
	if err != nil {
		return false, err
	}

	active := !found
	if found {
		err = s.reactionRepo.Delete(ctx, kind, postID, userID)
	} else {
		err = s.reactionRepo.Create(ctx, kind, postID, userID)
		// a concurrent toggle created it first; the reaction is active either way
		if models.HasCode(err, models.CodeConflict) {
			err = nil
		}
	}
	if err != nil {
		return false, err
	}

	cache.InvalidatePost(ctx, postID)
	observability.ReactionToggles.WithLabelValues(string(kind), strconv.FormatBool(active)).Inc()
	return active, nil
}

func (s *ReactionService) Counts(ctx context.Context, postID uint) (ReactionCounts, error) {
	likes, dislikes, err := s.reactionRepo.Counts(ctx, postID)
	if err != nil {
		return ReactionCounts{}, err
	}
	return ReactionCounts{PostID: postID, LikesCount: likes, DislikesCount: dislikes}, nil
}

func (s *ReactionService) UserReactions(ctx context.Context, userID uint) (*UserReactions, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("User not logged in!")
	}
	likes, err := s.reactionRepo.ListLikesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dislikes, err := s.reactionRepo.ListDislikesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserReactions{LikedPosts: likes, DislikedPosts: dislikes}, nil
}
