package auth

import "github.com/crucial707/blogfeed/internal/models"

// Authorization predicates over (actor, resource). They do not touch any store.

// IsOwner reports whether actor authored blog.
func IsOwner(actor *models.User, blog *models.Blog) bool {
	return actor != nil && blog != nil && actor.Username == blog.Author
}

// CanUpdateBlog: only the author may edit a post.
func CanUpdateBlog(actor *models.User, blog *models.Blog) bool {
	return IsOwner(actor, blog)
}

// CanDeleteBlog: the author or any admin may delete a post.
func CanDeleteBlog(actor *models.User, blog *models.Blog) bool {
	return actor.IsAdmin() || IsOwner(actor, blog)
}

// CanChangeRoles reports whether actor may change other users' roles.
func CanChangeRoles(actor *models.User) bool {
	return actor.IsAdmin()
}

// CanViewAudit reports whether actor may read the audit log.
func CanViewAudit(actor *models.User) bool {
	return actor.IsAdmin()
}
