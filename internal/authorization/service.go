package authorization

import (
	"context"
	"errors"
)

// Service decides whether an authenticated user may perform action on
// object. Roles map to casbin groupings of the form role:<name>.
type Service interface {
	Authorize(ctx context.Context, userID string, role string, object string, action string) error
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)
