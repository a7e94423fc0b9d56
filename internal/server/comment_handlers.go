package server

import (
	"travelog/internal/models"
	"travelog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments/:postId
// @Summary List comments
// @Description Comments on a post, oldest first
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {array} models.Comment
// @Router /comments/{postId} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/comments
// @Summary Add comment
// @Tags comments
// @Accept json
// @Produce json
// @Security AccessToken
// @Param request body object{commentBody=string,PostId=int} true "Comment"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		CommentBody string `json:"commentBody"`
		PostID      flexID `json:"PostId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, username := currentUser(c)
	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:      userID,
		Username:    username,
		PostID:      uint(req.PostID),
		CommentBody: req.CommentBody,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:commentId
// @Summary Delete comment
// @Description Only the comment's author may delete it
// @Tags comments
// @Security AccessToken
// @Param commentId path int true "Comment ID"
// @Success 200 {string} string
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	userID, _ := currentUser(c)
	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON("DELETED SUCCESSFULLY")
}
