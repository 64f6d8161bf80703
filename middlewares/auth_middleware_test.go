package middlewares

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
)

type staticResolver map[string]services.Actor

func (r staticResolver) ActorFromToken(_ context.Context, token string) (services.Actor, error) {
	if actor, ok := r[token]; ok {
		return actor, nil
	}
	return services.Actor{}, errors.New("bad token")
}

func newApp(mw fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", mw, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": CurrentActor(c).UserID})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	resolver := staticResolver{"good": {UserID: 7, Email: "a@example.com"}}
	app := newApp(AuthMiddleware(resolver))

	cases := []struct {
		header string
		status int
	}{
		{"", fiber.StatusUnauthorized},
		{"Bearer bad", fiber.StatusUnauthorized},
		{"Basic good", fiber.StatusUnauthorized},
		{"Bearer good", fiber.StatusOK},
		{"bearer  good ", fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != tc.status {
			t.Errorf("header %q: status %d, want %d", tc.header, resp.StatusCode, tc.status)
		}
	}
}

func TestOptionalAuthMiddlewareNeverRejects(t *testing.T) {
	app := newApp(OptionalAuthMiddleware(staticResolver{}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer unknown")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
}
