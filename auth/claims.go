package auth

// PermissionsClaim is the claim carrying the caller's capability strings
const PermissionsClaim = "permissions"

// Claims is the decoded payload of a verified token
type Claims map[string]interface{}

// Subject returns the "sub" claim, or "" when absent
func (c Claims) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// Permissions returns the string members of the permissions claim.
// ok is false when the claim is absent or null.
func (c Claims) Permissions() (permissions []string, ok bool) {
	raw, exists := c[PermissionsClaim]
	if !exists || raw == nil {
		return nil, false
	}

	switch v := raw.(type) {
	case []string:
		return v, true
	case []interface{}:
		permissions = make([]string, 0, len(v))
		for _, p := range v {
			if s, isString := p.(string); isString {
				permissions = append(permissions, s)
			}
		}
		return permissions, true
	default:
		return []string{}, true
	}
}
