package server

import (
	"log/slog"

	"travelog/internal/middleware"
	"travelog/internal/models"
	"travelog/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

type reactionRequest struct {
	PostID flexID `json:"PostId" swaggertype:"integer"`
}

// ToggleLike handles POST /api/likes
// @Summary Toggle like
// @Description Adds the caller's like or removes it when present
// @Tags reactions
// @Accept json
// @Produce json
// @Security AccessToken
// @Param request body reactionRequest true "Post"
// @Success 200 {object} object{liked=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /likes [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	active, err := s.toggleReaction(c, models.ReactionLike)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": active})
}

// ToggleDislike handles POST /api/dislikes
// @Summary Toggle dislike
// @Description Adds the caller's dislike or removes it when present
// @Tags reactions
// @Accept json
// @Produce json
// @Security AccessToken
// @Param request body reactionRequest true "Post"
// @Success 200 {object} object{disliked=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /dislikes [post]
func (s *Server) ToggleDislike(c *fiber.Ctx) error {
	active, err := s.toggleReaction(c, models.ReactionDislike)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"disliked": active})
}

func (s *Server) toggleReaction(c *fiber.Ctx, kind models.ReactionKind) (bool, error) {
	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return false, models.NewValidationError("Invalid request body")
	}

	ctx := c.UserContext()
	postID := uint(req.PostID)
	userID, _ := currentUser(c)
	active, err := s.reactionService.Toggle(ctx, kind, postID, userID)
	if err != nil {
		return false, err
	}

	counts, err := s.reactionService.Counts(ctx, postID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to count reactions",
			slog.Uint64("post_id", uint64(postID)), slog.String("error", err.Error()))
		return active, nil
	}
	s.publishFeedEvent(ctx, notifications.EventPostReactionUpdated, counts)
	return active, nil
}
