// Package apierrors defines the typed outcomes the service layer returns to
// the transport boundary. Each error carries a Kind that decides the status
// code the caller sees and a message that is safe to show to clients.
package apierrors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// Kind classifies an APIError.
type Kind int

const (
	// KindUnknown is the zero Kind; it is never produced by constructors.
	KindUnknown Kind = iota
	// KindAuthentication covers bad credentials and invalid tokens.
	KindAuthentication
	// KindAuthorization covers policy violations by an identified caller.
	KindAuthorization
	// KindConflict covers uniqueness violations and password reuse.
	KindConflict
	// KindNotFound covers references to absent users or emails.
	KindNotFound
	// KindConfiguration covers server misconfiguration such as unknown hashing algorithms.
	KindConfiguration
	// KindValidation covers malformed requests.
	KindValidation
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindAuthentication: "authentication",
	KindAuthorization:  "authorization",
	KindConflict:       "conflict",
	KindNotFound:       "not_found",
	KindConfiguration:  "configuration",
	KindValidation:     "validation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// GRPCCode returns the status code a Kind maps to.
func (k Kind) GRPCCode() codes.Code {
	switch k {
	case KindAuthentication:
		return codes.Unauthenticated
	case KindAuthorization:
		return codes.PermissionDenied
	case KindConflict:
		return codes.AlreadyExists
	case KindNotFound:
		return codes.NotFound
	case KindValidation:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// APIError is an expected failure with a client-safe message.
type APIError struct {
	Kind     Kind
	GRPCCode codes.Code
	Message  string
	Cause    error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches another APIError of the same Kind and message.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func newError(kind Kind, msg string, cause error) *APIError {
	return &APIError{
		Kind:     kind,
		GRPCCode: kind.GRPCCode(),
		Message:  msg,
		Cause:    cause,
	}
}

// KindOf returns the Kind of the first APIError in err's chain.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries an APIError of the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Authentication.

func NewErrInvalidCredentials() *APIError {
	return newError(KindAuthentication, "invalid login credentials provided", nil)
}

func NewErrMissingAuthorizationToken() *APIError {
	return newError(KindAuthentication, "missing authorization token", nil)
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newError(KindAuthentication, "invalid authorization token", nil)
}

// NewErrInvalidToken wraps a token verification failure.
func NewErrInvalidToken(cause error) *APIError {
	return newError(KindAuthentication, "invalid or expired token", cause)
}

func NewErrTokenSubjectMismatch() *APIError {
	return newError(KindAuthentication, "token does not belong to this user", nil)
}

func NewErrInvalidRefreshToken() *APIError {
	return newError(KindAuthentication, "invalid refresh token", nil)
}

// Authorization.

func NewErrEmailNotVerified() *APIError {
	return newError(KindAuthorization, "please verify your email", nil)
}

func NewErrPermissionDenied() *APIError {
	return newError(KindAuthorization, "insufficient permissions", nil)
}

func NewErrIncorrectPassword() *APIError {
	return newError(KindAuthorization, "current password is incorrect", nil)
}

func NewErrPrimaryEmailDeletion() *APIError {
	return newError(KindAuthorization, "primary email cannot be deleted", nil)
}

func NewErrActingOnBehalf() *APIError {
	return newError(KindAuthorization, "cannot act on behalf of another user", nil)
}

// Conflict.

func NewErrUsernameIsTaken(username string) *APIError {
	return newError(KindConflict, fmt.Sprintf("username %q is already taken", username), nil)
}

func NewErrEmailIsTaken(email string) *APIError {
	return newError(KindConflict, fmt.Sprintf("email %q is already taken", email), nil)
}

func NewErrEmailLimitExceeded(limit int) *APIError {
	return newError(KindConflict, fmt.Sprintf("maximum of %d associated emails reached", limit), nil)
}

func NewErrPasswordAlreadyUsed() *APIError {
	return newError(KindConflict, "password already used", nil)
}

// Not found.

func NewErrUserNotFound(id int64) *APIError {
	return newError(KindNotFound, fmt.Sprintf("user %d not found", id), nil)
}

func NewErrEmailNotFound() *APIError {
	return newError(KindNotFound, "email not found", nil)
}

// Configuration.

func NewErrUnsupportedAlgorithm(name string) *APIError {
	return newError(KindConfiguration, fmt.Sprintf("unsupported algorithm: %s", name), nil)
}

func NewErrUnknownPepperVersion(version string) *APIError {
	return newError(KindConfiguration, fmt.Sprintf("unknown pepper version: %s", version), nil)
}

// Validation.

func NewErrInvalidArgument(msg string) *APIError {
	return newError(KindValidation, msg, nil)
}
