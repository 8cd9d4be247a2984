package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Body     string `json:"body"`
	ParentID *uint  `json:"parent_id"`
}

// CreateComment handles POST /api/contents/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	contentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.Context(), currentUserID(c), contentID, req.ParentID, req.Body)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/contents/:id/comments, returning the full
// forest plus the total node count.
func (s *Server) GetComments(c *fiber.Ctx) error {
	contentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	forest, err := s.commentService.GetForest(c.Context(), contentID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(forest)
}

// DeleteComment handles DELETE /api/contents/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), currentUserID(c), commentID); err != nil {
		return respondAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
