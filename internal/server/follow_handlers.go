package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:userId/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(c.Context(), currentUserID(c), targetID); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"following": true})
}

// UnfollowUser handles DELETE /api/users/:userId/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.Context(), currentUserID(c), targetID); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"following": false})
}

// GetFollowStatus handles GET /api/users/:userId/follow
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	following, err := s.followService.IsFollowing(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"following": following})
}

// GetRelations returns the handler for GET /api/users/:userId/followers and
// /api/users/:userId/following. Each entry carries an is_following flag
// computed relative to the requesting viewer.
func (s *Server) GetRelations(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profileID, err := s.parseID(c, "userId")
		if err != nil {
			return nil
		}
		q := parsePageQuery(c)

		page, err := s.followService.Relations(c.Context(), profileID, currentUserID(c), kind, q.Page, q.PageSize)
		if err != nil {
			return respondAppError(c, err)
		}

		return c.JSON(page)
	}
}
