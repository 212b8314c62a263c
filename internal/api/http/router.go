package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Users        *handlers.UsersHandler
	Posts        *handlers.PostsHandler
	Categories   *handlers.CategoriesHandler
	Comments     *handlers.CommentsHandler
	Likes        *handlers.LikesHandler
	LoginLimiter *IPRateLimiter
}

// RegisterRoutes wires HTTP routes. Authorization happens in services, so every route
// is reachable anonymously and refuses inside the handler when identity is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	if cfg.LoginLimiter != nil {
		authGroup.Post("/login", cfg.LoginLimiter.Handle, cfg.Users.Login)
	} else {
		authGroup.Post("/login", cfg.Users.Login)
	}
	api.Get("/users/me", cfg.Users.Me)

	api.Get("/categories", cfg.Categories.List)
	api.Post("/categories", cfg.Categories.Create)
	api.Put("/categories/:id", cfg.Categories.Update)
	api.Delete("/categories/:id", cfg.Categories.Delete)

	api.Get("/posts", cfg.Posts.List)
	api.Post("/posts", cfg.Posts.Create)
	api.Get("/posts/:id", cfg.Posts.Get)
	api.Put("/posts/:id", cfg.Posts.Update)
	api.Delete("/posts/:id", cfg.Posts.Delete)

	api.Get("/posts/:postId/comments", cfg.Comments.List)
	api.Post("/posts/:postId/comments", cfg.Comments.Create)
	api.Patch("/comments/:id", cfg.Comments.Update)
	api.Delete("/comments/:id", cfg.Comments.Delete)

	api.Get("/posts/:postId/likes", cfg.Likes.Status)
	api.Post("/posts/:postId/likes", cfg.Likes.Like)
	api.Delete("/posts/:postId/likes", cfg.Likes.Unlike)
}
