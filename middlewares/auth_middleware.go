package middlewares

import (
	"context"
	"strings"

	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
)

const actorLocalsKey = "actor"

// ActorResolver Bearer token'dan Actor üretir.
type ActorResolver interface {
	ActorFromToken(ctx context.Context, token string) (services.Actor, error)
}

// AuthMiddleware geçerli bir Bearer token ister; Actor'ü c.Locals("actor") içine koyar.
func AuthMiddleware(resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := resolve(c, resolver)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated."})
		}
		c.Locals(actorLocalsKey, actor)
		return c.Next()
	}
}

// OptionalAuthMiddleware token varsa ve geçerliyse Actor'ü ekler, yoksa isteği reddetmeden devam eder.
func OptionalAuthMiddleware(resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if actor, ok := resolve(c, resolver); ok {
			c.Locals(actorLocalsKey, actor)
		}
		return c.Next()
	}
}

// CurrentActor isteğe bağlı Actor'ü döndürür; yoksa sıfır değer.
func CurrentActor(c *fiber.Ctx) services.Actor {
	if actor, ok := c.Locals(actorLocalsKey).(services.Actor); ok {
		return actor
	}
	return services.Actor{}
}

func resolve(c *fiber.Ctx, resolver ActorResolver) (services.Actor, bool) {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return services.Actor{}, false
	}
	actor, err := resolver.ActorFromToken(c.UserContext(), token)
	if err != nil || !actor.Authenticated() {
		return services.Actor{}, false
	}
	return actor, true
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
