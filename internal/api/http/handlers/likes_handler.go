package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/engagement"
)

// LikesHandler exposes like toggling for members and guests.
type LikesHandler struct {
	likes    *engagement.LikeToggleEngine
	clientIP IPResolver
}

// NewLikesHandler constructs handler.
func NewLikesHandler(likes *engagement.LikeToggleEngine, clientIP IPResolver) *LikesHandler {
	return &LikesHandler{likes: likes, clientIP: clientIP}
}

// Like POST /api/posts/:postId/likes.
func (h *LikesHandler) Like(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return err
	}
	status, err := h.likes.Like(c.UserContext(), postID, h.owner(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": status})
}

// Unlike DELETE /api/posts/:postId/likes.
func (h *LikesHandler) Unlike(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return err
	}
	status, err := h.likes.Unlike(c.UserContext(), postID, h.owner(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": status})
}

// Status GET /api/posts/:postId/likes.
func (h *LikesHandler) Status(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return err
	}
	var owner *domain.LikeOwner
	if o := h.owner(c); o.Identity != "" {
		owner = &o
	}
	status, err := h.likes.Status(c.UserContext(), postID, owner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": status})
}

// owner keys members by id and everyone else by IP.
func (h *LikesHandler) owner(c *fiber.Ctx) domain.LikeOwner {
	ac := auth.FromFiber(c)
	if ac.IsIdentified() {
		return domain.MemberOwner(ac.SubjectID())
	}
	return domain.GuestOwner(h.clientIP.resolve(c))
}
