package auth

import "strings"

// SignupDTO is the transport shape for POST /auth/signup.
type SignupDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginDTO is the transport shape for POST /auth/login.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims and lowercases the identifying fields the way they are
// stored, so lookups are case-insensitive on email and username.
func (d *SignupDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Username = strings.ToLower(strings.TrimSpace(d.Username))
	if d.Role == "" {
		d.Role = "Finance Officer"
	}
	d.Role = strings.TrimSpace(d.Role)
}

func (d SignupDTO) Validate() error {
	if d.FullName == "" || d.Email == "" || d.Username == "" || d.Password == "" {
		return ErrMissingFields
	}
	return nil
}

func (d *LoginDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Password = strings.TrimSpace(d.Password)
}

func (d LoginDTO) Validate() error {
	if d.Email == "" || d.Password == "" {
		return ErrMissingFields
	}
	return nil
}
