package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"TaskTracker/Security"
	"TaskTracker/apperrors"
)

// RoleEmployee is the single role granted to every authenticated caller.
const RoleEmployee = "ROLE_EMPLOYEE"

const identityKey = "identity"

// Identity is the authenticated caller attached to a request.
type Identity struct {
	EmployeeID uint
	Name       string
	Email      string
	Roles      []string
}

// TokenVerifier decodes a bearer token into its claims.
type TokenVerifier interface {
	Verify(token string) (*Security.Claims, error)
}

// GatekeeperConfig lists the paths reachable without a token. PublicPaths
// match exactly; PublicPrefixes match any path below them.
type GatekeeperConfig struct {
	PublicPaths    []string
	PublicPrefixes []string
}

// DefaultGatekeeperConfig leaves signup, signin, task creation and health checks public.
func DefaultGatekeeperConfig() GatekeeperConfig {
	return GatekeeperConfig{
		PublicPaths:    []string{"/health"},
		PublicPrefixes: []string{"/auth/", "/tasks/add/"},
	}
}

// Gatekeeper authenticates every non-public request with a bearer token and
// stores the resulting Identity in the request locals.
func Gatekeeper(verifier TokenVerifier, config ...GatekeeperConfig) fiber.Handler {
	cfg := DefaultGatekeeperConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions || isPublic(c.Path(), cfg) {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !hasBearerScheme(header) {
			return unauthorized(c, "Missing or invalid Authorization header")
		}

		token := extractToken(header)
		if token == "" || strings.EqualFold(token, "bearer") {
			return unauthorized(c, "Token is empty")
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindTokenExpired {
				log.Printf("Rejected expired token for %s %s", c.Method(), c.Path())
			} else {
				log.Printf("Rejected invalid token for %s %s: %v", c.Method(), c.Path(), err)
			}
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(identityKey, Identity{
			EmployeeID: claims.EmployeeID,
			Name:       claims.Name,
			Email:      claims.Email,
			Roles:      []string{RoleEmployee},
		})
		return c.Next()
	}
}

// CurrentIdentity returns the identity attached by Gatekeeper, if any.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	return identity, ok
}

func isPublic(path string, cfg GatekeeperConfig) bool {
	for _, p := range cfg.PublicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func hasBearerScheme(header string) bool {
	const scheme = "bearer"
	header = strings.TrimSpace(header)
	return len(header) >= len(scheme) && strings.EqualFold(header[:len(scheme)], scheme)
}

// extractToken takes the last whitespace-separated segment, which tolerates
// clients that send "Bearer Bearer <token>".
func extractToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}
