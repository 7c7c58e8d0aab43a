// model/neo4j/schema.go
package authz_neo4j

// Node Labels
const (
	// LabelUser represents a TechVerse user
	LabelUser = "User"

	// LabelRole represents a role that can be assigned to users
	LabelRole = "Role"

	// LabelPermission represents a grantable permission string
	LabelPermission = "Permission"
)

// Relationship Types
const (
	// RelHasRole represents the relationship between a user and their role
	RelHasRole = "HAS_ROLE"

	// RelHasPermission represents the relationship between a role (or a user,
	// for explicit grants) and its permissions
	RelHasPermission = "HAS_PERMISSION"
)

// Common node attributes
const (
	AttrName      = "name"
	AttrCreatedAt = "createdAt"
	AttrUpdatedAt = "updatedAt"
)
