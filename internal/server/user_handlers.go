package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"travelog/internal/cache"
	"travelog/internal/middleware"
	"travelog/internal/models"
	"travelog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/users
// @Summary Register
// @Description Create a user account
// @Tags users
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Credentials"
// @Success 201 {object} object{id=int,username=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

// Login handles POST /api/users/login
// @Summary Login
// @Description Authenticate and receive an access token
// @Tags users
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Credentials"
// @Success 200 {object} object{token=string,username=string,id=int}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":    token,
		"username": user.Username,
		"id":       user.ID,
	})
}

// AuthCheck handles GET /api/users/authCheck
// @Summary Session check
// @Description Returns the identity carried by the access token
// @Tags users
// @Produce json
// @Security AccessToken
// @Success 200 {object} object{id=int,username=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/authCheck [get]
func (s *Server) AuthCheck(c *fiber.Ctx) error {
	userID, username := currentUser(c)
	return c.JSON(fiber.Map{
		"id":       userID,
		"username": username,
	})
}

// Logout handles POST /api/users/logout by revoking the token until it expires.
// @Summary Logout
// @Tags users
// @Security AccessToken
// @Success 200 {object} object{message=string}
// @Router /users/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, _ := c.Locals("claims").(*tokenClaims)
	if claims == nil || claims.JTI == "" {
		return c.JSON(fiber.Map{"message": "Logged out"})
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return c.JSON(fiber.Map{"message": "Logged out"})
	}

	if s.redis == nil {
		middleware.Logger.WarnContext(c.UserContext(), "token revocation unavailable without redis")
		return c.JSON(fiber.Map{"message": "Logged out"})
	}
	if err := s.redis.Set(c.UserContext(), cache.RevokedTokenKey(claims.JTI), "1", ttl).Err(); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to revoke token",
			slog.String("jti", claims.JTI), slog.String("error", err.Error()))
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GetUserInfo handles GET /api/users/info/:id
// @Summary Public profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{id=int,username=string,createdAt=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/info/{id} [get]
func (s *Server) GetUserInfo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":        user.ID,
		"username":  user.Username,
		"createdAt": user.CreatedAt,
	})
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	ttl := time.Duration(s.config.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
