package dto

type ApproveUserRequest struct {
	Role string `json:"role"`
}

// UpdateUserRequest is a partial update; role changes are validated
// against the closed role set.
type UpdateUserRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}
