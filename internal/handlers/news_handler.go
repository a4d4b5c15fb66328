package handlers

import (
	"mars/internal/common"
	"mars/internal/middleware"
	"mars/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NewsHandler handles HTTP requests for news.
type NewsHandler struct {
	service *services.NewsService
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(service *services.NewsService) *NewsHandler {
	return &NewsHandler{
		service: service,
	}
}

// RegisterRoutes registers the news routes. Everything but the index needs a logged-in viewer.
func (h *NewsHandler) RegisterRoutes(router fiber.Router) {
	requireViewer := middleware.RequireViewer()

	router.Get("/", h.HandleIndex)
	router.Post("/news", requireViewer, h.HandleCreateNews)
	router.Get("/news/:id<int>", requireViewer, h.HandleGetNewsForEdit)
	router.Post("/news/:id<int>", requireViewer, h.HandleUpdateNews)
	router.Get("/news_delete/:id<int>", requireViewer, h.HandleDeleteNews)
	router.Post("/news_delete/:id<int>", requireViewer, h.HandleDeleteNews)
}

// NewsRequest represents the news form.
type NewsRequest struct {
	Title     string `json:"title" form:"title"`
	Content   string `json:"content" form:"content"`
	IsPrivate bool   `json:"is_private" form:"is_private"`
}

func (r NewsRequest) input() services.NewsInput {
	return services.NewsInput{Title: r.Title, Content: r.Content, IsPrivate: r.IsPrivate}
}

// HandleIndex lists the news visible to the current viewer.
func (h *NewsHandler) HandleIndex(c *fiber.Ctx) error {
	news, err := h.service.ListVisible(c.UserContext(), middleware.Viewer(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve news")
	}
	return c.JSON(news)
}

// HandleCreateNews publishes a news item owned by the current viewer.
func (h *NewsHandler) HandleCreateNews(c *fiber.Ctx) error {
	var req NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	news, err := h.service.Create(c.UserContext(), middleware.Viewer(c), req.input())
	if err != nil {
		return respondError(c, err, "Could not create news")
	}
	return c.Status(fiber.StatusCreated).JSON(news)
}

// HandleGetNewsForEdit returns a news item owned by the current viewer.
func (h *NewsHandler) HandleGetNewsForEdit(c *fiber.Ctx) error {
	id, err := newsID(c)
	if err != nil {
		return respondError(c, err, "Could not retrieve news")
	}

	news, err := h.service.GetForEdit(c.UserContext(), middleware.Viewer(c), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve news")
	}
	return c.JSON(news)
}

// HandleUpdateNews overwrites a news item owned by the current viewer.
func (h *NewsHandler) HandleUpdateNews(c *fiber.Ctx) error {
	id, err := newsID(c)
	if err != nil {
		return respondError(c, err, "Could not update news")
	}
	var req NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	news, err := h.service.Update(c.UserContext(), middleware.Viewer(c), id, req.input())
	if err != nil {
		return respondError(c, err, "Could not update news")
	}
	return c.JSON(news)
}

// HandleDeleteNews deletes a news item owned by the current viewer.
func (h *NewsHandler) HandleDeleteNews(c *fiber.Ctx) error {
	id, err := newsID(c)
	if err != nil {
		return respondError(c, err, "Could not delete news")
	}

	if err := h.service.Delete(c.UserContext(), middleware.Viewer(c), id); err != nil {
		return respondError(c, err, "Could not delete news")
	}
	return c.JSON(fiber.Map{
		"message": "News deleted successfully",
	})
}

// newsID reads the :id route parameter. Out of range ids are reported as not found.
func newsID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, common.ErrNotFound
	}
	return uint(id), nil
}
