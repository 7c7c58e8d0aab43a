package model

// CheckRequest asks whether a user holds a single permission.
type CheckRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	Permission string `json:"permission"`
}

// CheckListRequest asks whether a user holds all (or any) of a permission list.
type CheckListRequest struct {
	UserID      string   `json:"user_id" binding:"required"`
	Permissions []string `json:"permissions"`
}

// CheckResponse is the result of a permission check.
type CheckResponse struct {
	Allowed bool `json:"allowed"`
}

// SetPermissionsRequest replaces a user's explicit permission grants.
type SetPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}
