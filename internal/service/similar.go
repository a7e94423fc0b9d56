package service

import (
	"context"

	"travelog/internal/models"
	"travelog/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// sameAuthorLimit caps the author query. A full result short-circuits the backfill.
	sameAuthorLimit = 3
	recentLimit     = 4
	maxSimilar      = 4
)

// SelectSimilar returns up to four posts related to postID: the author's
// other recent posts, topped up with the most recent posts overall.
func (s *PostService) SelectSimilar(ctx context.Context, postID uint) (posts []*models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.SelectSimilar", attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	ref, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	sameAuthor, err := s.postRepo.ListByAuthorExcluding(ctx, ref.UserID, postID, sameAuthorLimit)
	if err != nil {
		return nil, err
	}
	if len(sameAuthor) >= sameAuthorLimit {
		observability.SimilarPostsSelections.WithLabelValues("same_author").Inc()
		return selectSimilar(sameAuthor, nil), nil
	}

	recent, err := s.postRepo.ListRecentExcluding(ctx, postID, recentLimit)
	if err != nil {
		return nil, err
	}
	observability.SimilarPostsSelections.WithLabelValues("backfill").Inc()
	return selectSimilar(sameAuthor, recent), nil
}

// selectSimilar concatenates the two candidate lists, drops repeated ids
// keeping the first occurrence and truncates to maxSimilar.
func selectSimilar(sameAuthor, recent []*models.Post) []*models.Post {
	out := make([]*models.Post, 0, maxSimilar)
	seen := make(map[uint]struct{}, len(sameAuthor)+len(recent))
	for _, list := range [][]*models.Post{sameAuthor, recent} {
		for _, p := range list {
			if len(out) == maxSimilar {
				return out
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
