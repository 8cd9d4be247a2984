package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// interactionResponseKeys maps each kind to the member-flag and count keys
// in the toggle response, e.g. like -> {"liked": ..., "likes_count": ...}.
var interactionResponseKeys = map[models.InteractionKind][2]string{
	models.KindLike:  {"liked", "likes_count"},
	models.KindSave:  {"saved", "saves_count"},
	models.KindShare: {"shared", "shares_count"},
	models.KindView:  {"viewed", "views_count"},
}

// ToggleInteraction returns the handler for POST /api/contents/:id/<kind>.
// One route family shares the toggle semantics; only the response keys differ.
func (s *Server) ToggleInteraction(rawKind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := models.ParseInteractionKind(rawKind)
		if err != nil {
			return respondAppError(c, err)
		}

		contentID, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}

		result, err := s.interactionService.Toggle(c.Context(), currentUserID(c), contentID, kind)
		if err != nil {
			return respondAppError(c, err)
		}

		keys := interactionResponseKeys[kind]
		return c.JSON(fiber.Map{
			keys[0]: result.Added,
			keys[1]: result.Cardinality,
		})
	}
}

// InteractionStatus returns the handler for GET /api/contents/:id/<kind>.
// It reads the caller's membership and the set size without mutating either.
func (s *Server) InteractionStatus(rawKind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := models.ParseInteractionKind(rawKind)
		if err != nil {
			return respondAppError(c, err)
		}

		contentID, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}

		member, err := s.interactionService.IsMember(c.Context(), currentUserID(c), contentID, kind)
		if err != nil {
			return respondAppError(c, err)
		}
		count, err := s.interactionService.Cardinality(c.Context(), contentID, kind)
		if err != nil {
			return respondAppError(c, err)
		}

		keys := interactionResponseKeys[kind]
		return c.JSON(fiber.Map{
			keys[0]: member,
			keys[1]: count,
		})
	}
}

// GetMyInteractions handles GET /api/me/interactions?kind=&page=&pageSize=
// The kind defaults to "save": saved items are the primary ranked view.
func (s *Server) GetMyInteractions(c *fiber.Ctx) error {
	q := parsePageQuery(c)

	view, err := s.viewService.Build(c.Context(), currentUserID(c), c.Query("kind", string(models.KindSave)), q.Page, q.PageSize)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(view)
}
