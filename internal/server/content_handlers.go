package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createContentRequest struct {
	ContentType string `json:"content_type"`
	Caption     string `json:"caption"`
	MediaURL    string `json:"media_url"`
}

// CreateContent handles POST /api/contents
func (s *Server) CreateContent(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req createContentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content, err := s.contentService.CreateContent(c.Context(), userID, req.ContentType, req.Caption, req.MediaURL)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(content)
}

// GetContent handles GET /api/contents/:id, returning the item with live
// counts, viewer flags and its comment forest.
func (s *Server) GetContent(c *fiber.Ctx) error {
	contentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	content, err := s.contentService.GetContent(c.Context(), contentID, currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}

	forest, err := s.commentService.GetForest(c.Context(), contentID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"content":  content,
		"comments": forest.Comments,
	})
}

// ArchiveContent handles POST /api/contents/:id/archive
func (s *Server) ArchiveContent(c *fiber.Ctx) error {
	return s.setArchived(c, true)
}

// UnarchiveContent handles POST /api/contents/:id/unarchive
func (s *Server) UnarchiveContent(c *fiber.Ctx) error {
	return s.setArchived(c, false)
}

func (s *Server) setArchived(c *fiber.Ctx, archived bool) error {
	contentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.contentService.SetArchived(c.Context(), currentUserID(c), contentID, archived); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"archived": archived})
}

// DeleteContent handles DELETE /api/contents/:id
func (s *Server) DeleteContent(c *fiber.Ctx) error {
	contentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.contentService.DeleteContent(c.Context(), currentUserID(c), contentID); err != nil {
		return respondAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
