package handlers

import (
	"context"
	"log"
	"time"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/jjenkins/legreview/internal/service"
	"github.com/jjenkins/legreview/internal/store"
)

// Env is what the handlers share
type Env struct {
	Tables   store.Tables
	Users    *store.UserStore
	Catalog  *service.Catalog
	Sessions *service.Sessions
	Store    *session.Store
}

// NewSessionStore creates the cookie session store for signed-in reviewers
func NewSessionStore(ttl time.Duration) *session.Store {
	return session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:legreview_session",
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// Routes registers every handler on app
func Routes(app *fiber.App, env *Env) {
	app.Get("/healthz", HealthHandler(env.Tables))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/review", fiber.StatusSeeOther)
	})
	app.Get("/login", LoginPageHandler())
	app.Post("/login", LoginHandler(env))
	app.Post("/logout", LogoutHandler(env))

	review := app.Group("/review", RequireReviewer(env.Store))
	review.Get("/", ReviewHandler(env))
	review.Get("/verdicts", VerdictsHandler(env))
	review.Post("/dataset", SelectDatasetHandler(env))
	review.Post("/confirm", ConfirmHandler(env))
	review.Post("/edit", EditHandler(env))
	review.Post("/submit", SubmitHandler(env))
	review.Post("/cancel", CancelHandler(env))
	review.Post("/restart", RestartHandler(env))
}

// HealthHandler reports whether the row store is reachable
func HealthHandler(tables store.Tables) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
		defer cancel()

		if err := tables.Ping(ctx); err != nil {
			log.Printf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).SendString("backend unavailable")
		}
		return c.SendString("ok")
	}
}

func render(c *fiber.Ctx, status int, page templ.Component) error {
	handler := adaptor.HTTPHandler(templ.Handler(page, templ.WithStatus(status)))
	return handler(c)
}
