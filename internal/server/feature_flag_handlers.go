package server

import "github.com/gofiber/fiber/v2"

type featureFlagsResponse struct {
	Raw       map[string]string `json:"raw"`
	Evaluated map[string]bool   `json:"evaluated"`
}

// GetFeatureFlags handles GET /api/feature-flags
// @Summary Feature flags
// @Description Configured flag values and their state for the caller (anonymous callers use user id 0)
// @Tags flags
// @Produce json
// @Success 200 {object} featureFlagsResponse
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	resp := featureFlagsResponse{Raw: map[string]string{}, Evaluated: map[string]bool{}}
	if s.featureFlags != nil {
		userID, _ := currentUser(c)
		resp.Raw = s.featureFlags.Raw()
		resp.Evaluated = s.featureFlags.Snapshot(userID)
	}
	return c.JSON(resp)
}
