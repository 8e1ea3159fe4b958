package account

import "lexid/internal/shared/errors"

// Conflict detail codes carried inside AppError.Details so callers can
// tell the three uniqueness violations apart.
const (
	ConflictUsernameTaken    = "username_taken"
	ConflictEmailTaken       = "email_taken"
	ConflictExternalIDLinked = "external_id_already_linked"
)

// NewUsernameTakenError reports that the username is already in use
func NewUsernameTakenError() *errors.AppError {
	return errors.NewConflictError("username is already taken", ConflictUsernameTaken)
}

// NewEmailTakenError reports that the email is already in use
func NewEmailTakenError() *errors.AppError {
	return errors.NewConflictError("email is already registered", ConflictEmailTaken)
}

// NewExternalIDLinkedError reports that the provider identity is already
// linked to another account
func NewExternalIDLinkedError() *errors.AppError {
	return errors.NewConflictError("external identity is already linked to an account", ConflictExternalIDLinked)
}

// IsConflict reports whether err is one of the account conflicts with
// the given detail code.
func IsConflict(err error, detail string) bool {
	appErr := errors.GetAppError(err)
	return appErr != nil && appErr.Type == errors.ErrorTypeConflict && appErr.Details == detail
}
