package handlers

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/service"
	"github.com/jjenkins/legreview/internal/templates"
)

var saveMessages = []string{"✅ تم الحفظ – كفو!", "✅ شغل نظيف!", "✅ حُفظ بنجاح!", "✅ ممتاز!"}

var finishMessages = []string{"أتممت مراجعة {dataset} بنجاح", "مراجعة 100% – عمل متقن", "أنجزت مراجعة {dataset} كاملةً"}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// workflow returns the signed-in reviewer's open workflow, starting one on
// the default dataset if the reviewer has none yet
func workflow(c *fiber.Ctx, env *Env) (*service.Workflow, error) {
	reviewer, _ := c.Locals(localReviewer).(string)
	return env.Sessions.Open(c.UserContext(), reviewer, env.Catalog.Default().Label)
}

func datasetError(c *fiber.Ctx, err error) error {
	log.Printf("Error loading dataset: %v", err)
	return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("ملف الداتا غير صالح: %v", err))
}

func ReviewHandler(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := workflow(c, env)
		if err != nil {
			return datasetError(c, err)
		}

		flash, errMsg := popMessages(c, env.Store)
		page := templates.ReviewPage{
			View:     w.View(),
			Datasets: env.Catalog.Datasets(),
			Flash:    flash,
			Error:    errMsg,
		}
		if page.View.State == service.StateCompleted {
			msg := finishMessages[rand.IntN(len(finishMessages))]
			page.Finish = strings.ReplaceAll(msg, "{dataset}", page.View.Dataset)
		}

		return render(c, fiber.StatusOK, templates.Review(page))
	}
}

func VerdictsHandler(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := workflow(c, env)
		if err != nil {
			return datasetError(c, err)
		}

		return render(c, fiber.StatusOK, templates.Verdicts(w.Reviewer(), w.Verdicts()))
	}
}

func SelectDatasetHandler(env *Env) fiber.Handler {
	return action(env, func(c *fiber.Ctx, w *service.Workflow) (string, error) {
		d, err := env.Catalog.Lookup(c.FormValue("dataset"))
		if err != nil {
			return "", err
		}
		return "", w.SelectDataset(d.Label)
	})
}

func ConfirmHandler(env *Env) fiber.Handler {
	return action(env, func(c *fiber.Ctx, w *service.Workflow) (string, error) {
		return randomSaveMessage(), w.Confirm(c.UserContext())
	})
}

func EditHandler(env *Env) fiber.Handler {
	return action(env, func(c *fiber.Ctx, w *service.Workflow) (string, error) {
		return "", w.BeginEdit()
	})
}

func SubmitHandler(env *Env) fiber.Handler {
	return action(env, func(c *fiber.Ctx, w *service.Workflow) (string, error) {
		overrides := make(map[model.FieldKey]string)
		for _, key := range model.EditableFieldKeys {
			if raw := c.Request().PostArgs().Peek(string(key)); raw != nil {
				overrides[key] = trimmed(string(raw))
			}
		}
		return randomSaveMessage(), w.SubmitEdit(c.UserContext(), overrides)
	})
}

func CancelHandler(env *Env) fiber.Handler {
	return action(env, func(c *fiber.Ctx, w *service.Workflow) (string, error) {
		return "", w.CancelEdit()
	})
}

func RestartHandler(env *Env) fiber.Handler {
	return action(env, func(c *fiber.Ctx, w *service.Workflow) (string, error) {
		return "", w.Restart(c.UserContext())
	})
}

// action runs fn against the reviewer's workflow and redirects back to the
// review page with its outcome as a one-shot message
func action(env *Env, fn func(c *fiber.Ctx, w *service.Workflow) (string, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := workflow(c, env)
		if err != nil {
			return datasetError(c, err)
		}

		flash, err := fn(c, w)

		var persistErr *service.PersistError
		switch {
		case err == nil:
			if flash != "" {
				setMessage(c, env.Store, flashKey, flash)
			}
		case errors.As(err, &persistErr):
			log.Printf("Error saving verdicts for %s: %v", w.Reviewer(), err)
			setMessage(c, env.Store, errorKey, "خطأ في الحفظ على Google Sheets\n"+persistErr.Err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			// stale form, e.g. a double submit; the page shows the real state
		default:
			setMessage(c, env.Store, errorKey, err.Error())
		}

		return c.Redirect("/review", fiber.StatusSeeOther)
	}
}

func randomSaveMessage() string {
	return saveMessages[rand.IntN(len(saveMessages))]
}
