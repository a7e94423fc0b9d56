package server

import (
	"time"

	"travelog/internal/models"
	"travelog/internal/notifications"
	"travelog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postForm struct {
	Title    string `json:"title" form:"title"`
	PostText string `json:"postText" form:"postText"`
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description All posts with their likes and dislikes, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/byId/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/byId/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetSimilarPosts handles GET /api/posts/similar/:id
// @Summary Similar posts
// @Description Up to four posts by the same author, topped up with the most recent posts
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/similar/{id} [get]
func (s *Server) GetSimilarPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.SelectSimilar(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/byUserId/:id
// @Summary Posts by author
// @Tags posts
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Post
// @Router /posts/byUserId/{id} [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListByUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetUserReactions handles GET /api/posts/reacts
// @Summary Current user's reactions
// @Tags posts
// @Produce json
// @Security AccessToken
// @Success 200 {object} service.UserReactions
// @Router /posts/reacts [get]
func (s *Server) GetUserReactions(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	reactions, err := s.reactionService.UserReactions(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reactions)
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Multipart or JSON body; an optional "image" file part is stored under /uploads
// @Tags posts
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security AccessToken
// @Param title formData string true "Title"
// @Param postText formData string true "Body"
// @Param image formData file false "Image"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, username := currentUser(c)

	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	imageURL, err := s.storeImage(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:   userID,
		Username: username,
		Title:    req.Title,
		PostText: req.PostText,
		ImageURL: imageURL,
	})
	if err != nil {
		if imageURL != nil {
			s.uploadService.Remove(*imageURL)
		}
		return respondError(c, err)
	}
	post.EnsureReactions()

	s.publishFeedEvent(ctx, notifications.EventPostCreated, fiber.Map{
		"post_id":    post.ID,
		"author_id":  post.UserID,
		"title":      post.Title,
		"created_at": post.CreatedAt.UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(post)
}

// RenamePost handles PUT /api/posts/title
// @Summary Rename post
// @Description Owner only; responds with the new title
// @Tags posts
// @Accept json
// @Produce json
// @Security AccessToken
// @Param request body object{newTitle=string,id=int} true "New title"
// @Success 200 {string} string
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/title [put]
func (s *Server) RenamePost(c *fiber.Ctx) error {
	var req struct {
		NewTitle string `json:"newTitle"`
		ID       flexID `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, _ := currentUser(c)
	title, err := s.postService.RenamePost(c.UserContext(), service.RenamePostInput{
		UserID:   userID,
		PostID:   uint(req.ID),
		NewTitle: req.NewTitle,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(title)
}

// ReplacePostText handles PUT /api/posts/postText
// @Summary Replace post body
// @Description Owner only; responds with the new body
// @Tags posts
// @Accept json
// @Produce json
// @Security AccessToken
// @Param request body object{newPostText=string,id=int} true "New body"
// @Success 200 {string} string
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/postText [put]
func (s *Server) ReplacePostText(c *fiber.Ctx) error {
	var req struct {
		NewPostText string `json:"newPostText"`
		ID          flexID `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, _ := currentUser(c)
	text, err := s.postService.ReplacePostText(c.UserContext(), service.ReplacePostTextInput{
		UserID:      userID,
		PostID:      uint(req.ID),
		NewPostText: req.NewPostText,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(text)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update post
// @Description Owner only; replaces title and body and optionally the image
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security AccessToken
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	imageURL, err := s.storeImage(c)
	if err != nil {
		return respondError(c, err)
	}

	userID, _ := currentUser(c)
	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:   userID,
		PostID:   id,
		Title:    req.Title,
		PostText: req.PostText,
		ImageURL: imageURL,
	})
	if err != nil {
		if imageURL != nil {
			s.uploadService.Remove(*imageURL)
		}
		return respondError(c, err)
	}
	post.EnsureReactions()
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:postId
// @Summary Delete post
// @Description Owner only; removes the post with its comments and reactions
// @Tags posts
// @Security AccessToken
// @Param postId path int true "Post ID"
// @Success 200 {string} string
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{postId} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	userID, _ := currentUser(c)
	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: userID,
		PostID: id,
	}); err != nil {
		return respondError(c, err)
	}

	s.publishFeedEvent(c.UserContext(), notifications.EventPostDeleted, fiber.Map{"post_id": id})
	return c.JSON("Post Deleted Successfully")
}

// storeImage saves the request's image part, if any, and returns its URL.
func (s *Server) storeImage(c *fiber.Ctx) (*string, error) {
	upload, err := readImage(c)
	if err != nil || upload == nil {
		return nil, err
	}
	url, err := s.uploadService.Save(c.UserContext(), *upload)
	if err != nil {
		return nil, err
	}
	return &url, nil
}
