package service

import (
	"context"
	"errors"

	"github.com/spec-kit/card-directory/internal/domain"
	"github.com/spec-kit/card-directory/internal/events"
	apperrors "github.com/spec-kit/card-directory/pkg/util/errorutil"
)

// resourceError names the resource in not-found and malformed-id errors.
func resourceError(resource string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFound(resource)
	case errors.Is(err, domain.ErrMalformedID):
		return apperrors.NewMalformedID(resource)
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperrors.NewDuplicateEmail(duplicateEmailMessage(resource))
	default:
		return err
	}
}

func duplicateEmailMessage(resource string) string {
	if resource == "card" {
		return "email for this card already exists"
	}
	return "email already registered"
}

// emailTaken reports whether email belongs to a record other than exceptID.
func emailTaken[T any](ctx context.Context, lookup func(context.Context, string) (*T, error), id func(*T) string, email, exceptID string) (bool, error) {
	found, err := lookup(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return id(found) != exceptID, nil
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	// Subscribers log their own failures; activity never fails a request.
	_ = dispatcher.Publish(ctx, event)
}
