package errors

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserConflict    = errors.New("user conflict")
	ErrInvalidUserData = errors.New("invalid user data")

	ErrRoleNotFound    = errors.New("role not found")
	ErrRoleConflict    = errors.New("role conflict")
	ErrInvalidRoleData = errors.New("invalid role data")

	ErrInvalidPermissionData = errors.New("invalid permission data")

	ErrUnauthorized      = errors.New("unauthorized")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
)
