package domain

// User es la identidad ya resuelta por la capa de autenticacion externa.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}
