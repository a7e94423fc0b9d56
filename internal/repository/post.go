package repository

import (
	"context"

	"travelog/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Post, error)
	ListByAuthorExcluding(ctx context.Context, authorID, excludeID uint, limit int) ([]*models.Post, error)
	ListRecentExcluding(ctx context.Context, excludeID uint, limit int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withReactions preloads both reaction lists and applies newest-first ordering.
func (r *postRepository) withReactions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Likes").
		Preload("Dislikes").
		Order("created_at DESC").
		Order("id DESC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translate(err, "Post", post.ID)
	}
	post.EnsureReactions()
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Likes").
		Preload("Dislikes").
		First(&post, id).Error
	if err != nil {
		return nil, translate(err, "Post", id)
	}
	post.EnsureReactions()
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.find(r.withReactions(ctx))
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Post, error) {
	return r.find(r.withReactions(ctx).Where("user_id = ?", userID))
}

func (r *postRepository) ListByAuthorExcluding(ctx context.Context, authorID, excludeID uint, limit int) ([]*models.Post, error) {
	return r.find(r.withReactions(ctx).
		Where("user_id = ? AND id <> ?", authorID, excludeID).
		Limit(limit))
}

func (r *postRepository) ListRecentExcluding(ctx context.Context, excludeID uint, limit int) ([]*models.Post, error) {
	return r.find(r.withReactions(ctx).
		Where("id <> ?", excludeID).
		Limit(limit))
}

func (r *postRepository) find(q *gorm.DB) ([]*models.Post, error) {
	posts := []*models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range posts {
		p.EnsureReactions()
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(post).
		Select("title", "post_text", "image_url", "updated_at").
		Updates(post)
	if res.Error != nil {
		return translate(res.Error, "Post", post.ID)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

// Delete removes the post together with its comments and reactions.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.Comment{}, &models.Like{}, &models.Dislike{}} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
}
