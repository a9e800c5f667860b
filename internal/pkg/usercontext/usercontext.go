package usercontext

import (
	"github.com/gofiber/fiber/v2"
)

// UserContext carries the authenticated identity through a request.
type UserContext struct {
	UserID     uint
	Username   string
	Tier       string
	IsLoggedIn bool
	IsAdmin    bool
}

// FromCtx extracts the user context set by the auth middleware. The zero
// value is returned for unauthenticated requests.
func FromCtx(c *fiber.Ctx) UserContext {
	if uc, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return uc
	}
	return UserContext{}
}

// Set stores the user context on the request.
func Set(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
	c.Locals(KeyFromProtected, true)
	c.Locals(KeyUserID, uc.UserID)
	c.Locals(KeyUsername, uc.Username)
	c.Locals(KeyIsAdmin, uc.IsAdmin)
}
