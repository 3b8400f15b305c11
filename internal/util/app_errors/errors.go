package app_errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindIdentityLink                Kind = "IDENTITY_LINK_ERROR"
	KindIdentityProviderUnavailable Kind = "IDENTITY_PROVIDER_UNAVAILABLE"
	KindAlreadyMember               Kind = "ALREADY_MEMBER"
	KindSelfModification            Kind = "SELF_MODIFICATION"
	KindInvitationNotFound          Kind = "INVITATION_NOT_FOUND"
	KindInvitationExpired           Kind = "INVITATION_EXPIRED"
	KindEmailMismatch               Kind = "EMAIL_MISMATCH"
	KindConcurrentModification      Kind = "CONCURRENT_MODIFICATION"
	KindPermissionDenied            Kind = "PERMISSION_DENIED"
	KindNotAuthenticated            Kind = "NOT_AUTHENTICATED"
	KindOwnerProtected              Kind = "OWNER_PROTECTED"
	KindInvitationAlreadyPending    Kind = "INVITATION_ALREADY_PENDING"
	KindNotFound                    Kind = "NOT_FOUND"
	KindValidation                  Kind = "VALIDATION_ERROR"
	KindRateLimited                 Kind = "RATE_LIMITED"
	KindInternal                    Kind = "INTERNAL_ERROR"
)

// AppError is the error every service returns to its callers. Code is a
// stable machine-readable identifier and defaults to the kind; Message is
// safe to show to the user.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches by kind, and also by code when the target carries one, so
// sentinels like ErrPermissionDenied work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Code == "" || t.Code == e.Code
}

var (
	ErrIdentityLink                = &AppError{Kind: KindIdentityLink}
	ErrIdentityProviderUnavailable = &AppError{Kind: KindIdentityProviderUnavailable}
	ErrAlreadyMember               = &AppError{Kind: KindAlreadyMember}
	ErrSelfModification            = &AppError{Kind: KindSelfModification}
	ErrInvitationNotFound          = &AppError{Kind: KindInvitationNotFound}
	ErrInvitationExpired           = &AppError{Kind: KindInvitationExpired}
	ErrEmailMismatch               = &AppError{Kind: KindEmailMismatch}
	ErrConcurrentModification      = &AppError{Kind: KindConcurrentModification}
	ErrPermissionDenied            = &AppError{Kind: KindPermissionDenied}
	ErrNotAuthenticated            = &AppError{Kind: KindNotAuthenticated}
	ErrOwnerProtected              = &AppError{Kind: KindOwnerProtected}
	ErrInvitationAlreadyPending    = &AppError{Kind: KindInvitationAlreadyPending}
	ErrNotFound                    = &AppError{Kind: KindNotFound}
	ErrValidation                  = &AppError{Kind: KindValidation}
	ErrRateLimited                 = &AppError{Kind: KindRateLimited}
	ErrInternal                    = &AppError{Kind: KindInternal}
)

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Code: string(kind), Message: message}
}

// WithCode returns a copy carrying a more specific code.
func (e *AppError) WithCode(code string) *AppError {
	copied := *e
	copied.Code = code
	return &copied
}

func IdentityLink(message string) *AppError {
	return New(KindIdentityLink, message)
}

func IdentityProviderUnavailable(message string, err error) *AppError {
	appErr := New(KindIdentityProviderUnavailable, message)
	appErr.Err = err
	return appErr
}

func AlreadyMember(message string) *AppError {
	return New(KindAlreadyMember, message)
}

func SelfModification(message string) *AppError {
	return New(KindSelfModification, message)
}

func InvitationNotFound() *AppError {
	return New(KindInvitationNotFound, "invitation not found")
}

func InvitationExpired(message string) *AppError {
	return New(KindInvitationExpired, message)
}

func EmailMismatch() *AppError {
	return New(KindEmailMismatch, "this invitation was sent to a different email address")
}

func ConcurrentModification(message string) *AppError {
	return New(KindConcurrentModification, message)
}

func PermissionDenied(message string) *AppError {
	return New(KindPermissionDenied, message)
}

func NotAuthenticated(message string) *AppError {
	return New(KindNotAuthenticated, message)
}

func OwnerProtected(message string) *AppError {
	return New(KindOwnerProtected, message)
}

func InvitationAlreadyPending() *AppError {
	return New(KindInvitationAlreadyPending, "a pending invitation already exists for this email")
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func Validation(message string) *AppError {
	return New(KindValidation, message)
}

func RateLimited(message string) *AppError {
	return New(KindRateLimited, message)
}

func Internal(err error) *AppError {
	appErr := New(KindInternal, "internal error")
	appErr.Err = err
	return appErr
}

// KindOf returns KindInternal for errors that are not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return KindInternal
}

// CodeOf returns the code of an AppError and an empty string otherwise.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return ""
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindSelfModification:
		return http.StatusBadRequest
	case KindNotAuthenticated:
		return http.StatusUnauthorized
	case KindPermissionDenied, KindEmailMismatch:
		return http.StatusForbidden
	case KindNotFound, KindInvitationNotFound:
		return http.StatusNotFound
	case KindAlreadyMember,
		KindConcurrentModification,
		KindOwnerProtected,
		KindInvitationAlreadyPending,
		KindIdentityLink:
		return http.StatusConflict
	case KindInvitationExpired:
		return http.StatusGone
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindIdentityProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// OrInternal returns AppErrors unchanged and wraps anything else as Internal
// with the given context.
func OrInternal(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return Internal(fmt.Errorf("%s: %w", message, err))
}
