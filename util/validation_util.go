// util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/techverse/authz/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateRole(role model.Role) error {
	if role.Name == "" {
		return fmt.Errorf("role name cannot be empty")
	}
	for _, p := range role.Permissions {
		if err := v.ValidatePermissionString(p); err != nil {
			return err
		}
	}
	return nil
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if user.ID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if user.Username == "" {
		return fmt.Errorf("user username cannot be empty")
	}
	for _, p := range user.Permissions {
		if err := v.ValidatePermissionString(p); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePermissionString accepts "resource.action", "resource.*" and "*".
// Whitespace anywhere in the token is rejected.
func (v *ValidationUtil) ValidatePermissionString(permission string) error {
	if permission == "" {
		return fmt.Errorf("permission cannot be empty")
	}
	if strings.ContainsAny(permission, " \t\n") {
		return fmt.Errorf("permission %q cannot contain whitespace", permission)
	}
	if permission == "*" {
		return nil
	}
	resource, _, found := strings.Cut(permission, ".")
	if !found || resource == "" {
		return fmt.Errorf("permission %q must be of the form resource.action", permission)
	}
	return nil
}
