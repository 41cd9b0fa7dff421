package auth

import "github.com/laala-app/creator-dashboard/internal"

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// FirstPasswordChangeDTO completes the mandatory password change after a
// co-manager is provisioned with a temporary credential.
type FirstPasswordChangeDTO struct {
	AccountID         string `json:"account_id"`
	TemporaryPassword string `json:"temporary_password"`
	NewPassword       string `json:"new_password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}

func (d FirstPasswordChangeDTO) Validate() error {
	if d.AccountID == "" {
		return ValidationError{Msg: "account_id is required"}
	}
	if d.TemporaryPassword == "" {
		return ValidationError{Msg: "temporary_password is required"}
	}
	if len(d.NewPassword) < 8 {
		return internal.NewValidationError("new_password must be at least 8 characters", internal.ErrCodeWeakPassword)
	}
	if d.NewPassword == d.TemporaryPassword {
		return ValidationError{Msg: "new_password must differ from the temporary password"}
	}
	return nil
}
