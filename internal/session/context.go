package session

import (
	"github.com/harmony-haven/haven-client/internal/logger"
)

// Context carries the session credential for authenticated calls. The token
// is read from the store at call time, never cached in memory beyond the
// call, so a logout elsewhere takes effect on the next request.
type Context struct {
	store Store
	log   logger.Logger
}

// NewContext wraps a store in a session context.
func NewContext(store Store, log logger.Logger) *Context {
	return &Context{store: store, log: logger.Ensure(log)}
}

// Token returns the persisted bearer token, or empty string when none is set.
func (c *Context) Token() string {
	if c == nil || c.store == nil {
		return ""
	}
	token, err := c.store.Get(TokenKey)
	if err != nil {
		c.log.WarnObj("session token read failed", "error", err.Error())
		return ""
	}
	return token
}

// SetToken persists a freshly issued token.
func (c *Context) SetToken(token string) error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Set(TokenKey, token)
}

// Clear removes the persisted token.
func (c *Context) Clear() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Remove(TokenKey)
}

// BearerHeader builds the Authorization header for authenticated endpoints.
// An absent token yields an empty-string bearer value, not a missing header;
// the backend answers 401 either way and the shape stays predictable.
func (c *Context) BearerHeader() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.Token(),
		"Accept":        "application/json",
	}
}
