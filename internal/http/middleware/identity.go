package middleware

import "github.com/gin-gonic/gin"

// Identity is the authenticated caller attached to a request after token
// verification
type Identity struct {
	UserID uint
}

const identityKey = "tripauth/identity"

// SetIdentity attaches the verified identity to the request context
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity attached by the session middleware
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
