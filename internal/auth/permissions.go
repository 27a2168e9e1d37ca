package auth

// Built-in roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Permission keys for the built-in catalog.
const (
	PermCreatePost = "create:post"
	PermReadPost   = "read:post"
	PermUpdatePost = "update:post"
	PermDeletePost = "delete:post"

	PermReadUser   = "read:user"
	PermUpdateUser = "update:user"
	PermDeleteUser = "delete:user"

	PermReadRole = "read:role"
)

// DefaultCatalog returns the built-in role-to-permission table. Admin holds
// the universal grant; editors manage posts; viewers only read them.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[string][]string{
		RoleAdmin:  {PermissionAll},
		RoleEditor: {PermCreatePost, PermReadPost, PermUpdatePost},
		RoleViewer: {PermReadPost},
	})
}
