package repository

import (
	"context"
	"fmt"

	"travelog/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository stores likes and dislikes. The two kinds are independent tables.
type ReactionRepository interface {
	Exists(ctx context.Context, kind models.ReactionKind, postID, userID uint) (bool, error)
	Create(ctx context.Context, kind models.ReactionKind, postID, userID uint) error
	Delete(ctx context.Context, kind models.ReactionKind, postID, userID uint) error
	Counts(ctx context.Context, postID uint) (likes, dislikes int64, err error)
	ListLikesByUser(ctx context.Context, userID uint) ([]models.Like, error)
	ListDislikesByUser(ctx context.Context, userID uint) ([]models.Dislike, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func reactionModel(kind models.ReactionKind) (interface{}, error) {
	switch kind {
	case models.ReactionLike:
		return &models.Like{}, nil
	case models.ReactionDislike:
		return &models.Dislike{}, nil
	default:
		return nil, models.NewInternalError(fmt.Errorf("unknown reaction kind %q", kind))
	}
}

func (r *reactionRepository) Exists(ctx context.Context, kind models.ReactionKind, postID, userID uint) (bool, error) {
	model, err := reactionModel(kind)
	if err != nil {
		return false, err
	}
	var count int64
	err = r.db.WithContext(ctx).
		Model(model).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *reactionRepository) Create(ctx context.Context, kind models.ReactionKind, postID, userID uint) error {
	var record interface{}
	switch kind {
	case models.ReactionLike:
		record = &models.Like{PostID: postID, UserID: userID}
	case models.ReactionDislike:
		record = &models.Dislike{PostID: postID, UserID: userID}
	default:
		return models.NewInternalError(fmt.Errorf("unknown reaction kind %q", kind))
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Reaction already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, kind models.ReactionKind, postID, userID uint) error {
	model, err := reactionModel(kind)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(model).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Counts(ctx context.Context, postID uint) (int64, int64, error) {
	var likes, dislikes int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&likes).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	if err := db.Model(&models.Dislike{}).Where("post_id = ?", postID).Count(&dislikes).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	return likes, dislikes, nil
}

func (r *reactionRepository) ListLikesByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	likes := []models.Like{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *reactionRepository) ListDislikesByUser(ctx context.Context, userID uint) ([]models.Dislike, error) {
	dislikes := []models.Dislike{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&dislikes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return dislikes, nil
}
