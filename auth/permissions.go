package auth

// CheckPermission asserts that permission is a member of the payload's
// permissions claim. It has no side effects.
func CheckPermission(permission string, payload Claims) error {
	permissions, ok := payload.Permissions()
	if !ok {
		return ErrPermissionsClaimMissing
	}

	for _, p := range permissions {
		if p == permission {
			return nil
		}
	}
	return ErrPermissionDenied
}
