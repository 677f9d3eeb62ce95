package services

import (
	"errors"

	"spectres-crm/internal/permissions"
	"spectres-crm/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserExists         = errors.New("user with this email already exists")
)

// Actor is the authenticated user performing a request
type Actor struct {
	ID   uuid.UUID
	Role permissions.Role
}

func (a Actor) Can(p permissions.Permission) bool {
	return permissions.Can(a.Role, p)
}

// repoErr translates repository sentinels into service errors
func repoErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
