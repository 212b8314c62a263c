package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// PostsHandler manages post endpoints.
type PostsHandler struct {
	posts    *service.PostService
	clientIP IPResolver
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService, clientIP IPResolver) *PostsHandler {
	return &PostsHandler{posts: posts, clientIP: clientIP}
}

// Create POST /api/posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	var req dto.PostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Create(c.UserContext(), auth.FromFiber(c), postInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// List GET /api/posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	input := service.PostListInput{Keyword: c.Query("keyword"), Page: parsePage(c)}
	if raw := c.QueryInt("categoryId", 0); raw > 0 {
		id := int64(raw)
		input.CategoryID = &id
	}
	posts, err := h.posts.List(c.UserContext(), input)
	if err != nil {
		return err
	}
	items := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, dto.NewPostResponse(&posts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/posts/:id. Reading a post registers a view from the caller IP.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	view, err := h.posts.View(c.UserContext(), id, h.clientIP.resolve(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PostDetailResponse{
		PostResponse: dto.NewPostResponse(view.Post),
		ViewCounted:  view.ViewCounted,
	}})
}

// Update PUT /api/posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.PostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Update(c.UserContext(), auth.FromFiber(c), id, postInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Delete DELETE /api/posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.UserContext(), auth.FromFiber(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func postInput(req dto.PostRequest) service.PostInput {
	return service.PostInput{Title: req.Title, Content: req.Content, CategoryID: req.CategoryID}
}
