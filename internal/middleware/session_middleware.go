package middleware

import (
	"strings"

	"mars/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

const viewerKey = "viewer"

// LoginPath is where anonymous callers of protected routes are sent.
const LoginPath = "/login"

// SessionToken extracts the session token from the cookie, or from a
// "Bearer <token>" Authorization header for API clients.
func SessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// LoadViewer resolves the request's session into a viewer stored in the Fiber context.
// It never rejects a request: a bad session simply means an anonymous viewer.
func LoadViewer(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := authService.CurrentViewer(c.UserContext(), SessionToken(c))
		c.Locals(viewerKey, viewer)
		return c.Next()
	}
}

// RequireViewer redirects anonymous callers to the login page.
func RequireViewer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Viewer(c).IsAuthenticated() {
			return c.Redirect(LoginPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// Viewer returns the viewer stored by LoadViewer, or an anonymous one.
func Viewer(c *fiber.Ctx) services.Viewer {
	if viewer, ok := c.Locals(viewerKey).(services.Viewer); ok {
		return viewer
	}
	return services.AnonymousViewer()
}
