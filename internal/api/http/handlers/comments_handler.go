package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// CommentPasswordHeader may carry the anonymous comment password instead of the body.
const CommentPasswordHeader = "X-Comment-Password"

// CommentsHandler manages comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
	clientIP IPResolver
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService, clientIP IPResolver) *CommentsHandler {
	return &CommentsHandler{comments: comments, clientIP: clientIP}
}

// Create POST /api/posts/:postId/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return err
	}
	var req dto.CommentCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.UserContext(), auth.FromFiber(c), postID, service.CommentInput{
		Content:    req.Content,
		AuthorName: req.AuthorName,
		Password:   req.Password,
		IP:         h.clientIP.resolve(c),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// List GET /api/posts/:postId/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return err
	}
	comments, err := h.comments.List(c.UserContext(), postID, parsePage(c))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update PATCH /api/comments/:id.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CommentUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.UserContext(), auth.FromFiber(c), id, req.Content, commentPassword(c, req.Password))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Delete DELETE /api/comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CommentDeleteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.comments.Delete(c.UserContext(), auth.FromFiber(c), id, commentPassword(c, req.Password)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func commentPassword(c *fiber.Ctx, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.Get(CommentPasswordHeader)
}
