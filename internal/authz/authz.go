// Package authz holds the capability checks and anti-forgery tokens guarding bulk moves.
package authz

import (
	"strconv"
	"time"

	"bulkcat/internal/models"

	"golang.org/x/net/xsrftoken"
)

// Checker decides what an actor may do.
type Checker interface {
	// CanManage reports whether u may run bulk operations at all.
	CanManage(u *models.User) bool
	// CanEditPost reports whether u may change this specific post.
	CanEditPost(u *models.User, p *models.Post) bool
}

// RoleChecker maps user roles to capabilities.
type RoleChecker struct{}

func NewRoleChecker() *RoleChecker {
	return &RoleChecker{}
}

func (RoleChecker) CanManage(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdministrator
}

func (RoleChecker) CanEditPost(u *models.User, p *models.Post) bool {
	if u == nil || p == nil {
		return false
	}
	switch u.Role {
	case models.RoleAdministrator, models.RoleEditor:
		return true
	case models.RoleAuthor:
		return p.AuthorID == u.ID
	default:
		return false
	}
}

var _ Checker = RoleChecker{}

// ActionBulkMove scopes nonces to the bulk move endpoint.
const ActionBulkMove = "bulk_move"

// NonceManager issues and verifies per-user, per-action anti-forgery tokens.
type NonceManager struct {
	secret string
	ttl    time.Duration
}

func NewNonceManager(secret string, ttl time.Duration) *NonceManager {
	if ttl <= 0 {
		ttl = xsrftoken.Timeout
	}
	return &NonceManager{secret: secret, ttl: ttl}
}

// TTL is how long a freshly generated nonce stays valid.
func (n *NonceManager) TTL() time.Duration {
	return n.ttl
}

func (n *NonceManager) Generate(userID int64, action string) string {
	return xsrftoken.Generate(n.secret, strconv.FormatInt(userID, 10), action)
}

func (n *NonceManager) Verify(token string, userID int64, action string) bool {
	if token == "" {
		return false
	}
	return xsrftoken.ValidFor(token, n.secret, strconv.FormatInt(userID, 10), action, n.ttl)
}
