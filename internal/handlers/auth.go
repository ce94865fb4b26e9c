package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jjenkins/legreview/internal/templates"
)

const (
	reviewerKey = "reviewer"
	flashKey    = "flash"
	errorKey    = "error"

	localReviewer = "reviewer"
)

func LoginPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, fiber.StatusOK, templates.Login(""))
	}
}

func LoginHandler(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := c.FormValue("username")
		password := c.FormValue("password")

		ok, err := env.Users.Authenticate(c.UserContext(), username, password)
		if err != nil {
			log.Printf("Error reading reviewers table: %v", err)
			return render(c, fiber.StatusServiceUnavailable, templates.Login("مشكلة في قراءة جدول المستخدمين"))
		}
		if !ok {
			return render(c, fiber.StatusUnauthorized, templates.Login("بيانات الدخول غير صحيحة"))
		}

		sess, err := env.Store.Get(c)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error starting session")
		}
		if err := sess.Regenerate(); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error starting session")
		}
		sess.Set(reviewerKey, trimmed(username))
		if err := sess.Save(); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error saving session")
		}

		return c.Redirect("/review", fiber.StatusSeeOther)
	}
}

func LogoutHandler(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := env.Store.Get(c)
		if err != nil {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		if reviewer, _ := sess.Get(reviewerKey).(string); reviewer != "" {
			env.Sessions.Close(reviewer)
		}
		if err := sess.Destroy(); err != nil {
			log.Printf("Error destroying session: %v", err)
		}

		return c.Redirect("/login", fiber.StatusSeeOther)
	}
}

// RequireReviewer redirects to the login page unless the session is signed in
func RequireReviewer(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		reviewer, _ := sess.Get(reviewerKey).(string)
		if reviewer == "" {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		c.Locals(localReviewer, reviewer)
		return c.Next()
	}
}

// setMessage stores a one-shot message shown on the next review page
func setMessage(c *fiber.Ctx, store *session.Store, key, msg string) {
	sess, err := store.Get(c)
	if err != nil {
		log.Printf("Error loading session: %v", err)
		return
	}
	sess.Set(key, msg)
	if err := sess.Save(); err != nil {
		log.Printf("Error saving session: %v", err)
	}
}

// popMessages returns and clears the pending flash and error messages
func popMessages(c *fiber.Ctx, store *session.Store) (flash, errMsg string) {
	sess, err := store.Get(c)
	if err != nil {
		return "", ""
	}

	flash, _ = sess.Get(flashKey).(string)
	errMsg, _ = sess.Get(errorKey).(string)
	if flash == "" && errMsg == "" {
		return "", ""
	}

	sess.Delete(flashKey)
	sess.Delete(errorKey)
	if err := sess.Save(); err != nil {
		log.Printf("Error saving session: %v", err)
	}
	return flash, errMsg
}
