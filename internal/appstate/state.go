// Package appstate holds the per-user application state. Only the user
// identity and UI preferences cross the persistence boundary; bulk records
// loaded into a session are never written out.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spectres-crm/internal/cache"
	"spectres-crm/internal/models"
	"spectres-crm/internal/permissions"

	"github.com/google/uuid"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	DefaultPageSize = 25
	MaxPageSize     = 200

	persistTTL = 30 * 24 * time.Hour
)

var ErrInvalidPreferences = errors.New("invalid preferences")

// Identity is the signed-in user as the dashboard sees it
type Identity struct {
	ID          uuid.UUID                `json:"id"`
	Email       string                   `json:"email"`
	FullName    string                   `json:"full_name"`
	Role        permissions.Role         `json:"role"`
	Permissions []permissions.Permission `json:"permissions"`
}

// Preferences are UI settings remembered across sessions
type Preferences struct {
	Theme          string   `json:"theme"`
	PageSize       int      `json:"page_size"`
	StatusFilter   string   `json:"status_filter,omitempty"`
	VisibleColumns []string `json:"visible_columns,omitempty"`
}

// DefaultPreferences for a user with nothing stored yet
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:          ThemeSystem,
		PageSize:       DefaultPageSize,
		VisibleColumns: []string{"name", "phone", "status", "owner", "status_changed_at"},
	}
}

// Validate clamps the page size and rejects unknown themes and statuses
func (p *Preferences) Validate() error {
	switch p.Theme {
	case "":
		p.Theme = ThemeSystem
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidPreferences, p.Theme)
	}
	if p.StatusFilter != "" && !models.IsValidClientStatus(p.StatusFilter) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidPreferences, p.StatusFilter)
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return nil
}

// State is the full in-session state. Clients is session-only.
type State struct {
	User        Identity        `json:"user"`
	Preferences Preferences     `json:"preferences"`
	Clients     []models.Client `json:"-"`
}

// Persisted is the serialization boundary: the only part of State written out
type Persisted struct {
	User        Identity    `json:"user"`
	Preferences Preferences `json:"preferences"`
	SavedAt     time.Time   `json:"saved_at"`
}

// Persist returns the persistable subset of the state
func (s *State) Persist() Persisted {
	return Persisted{
		User:        s.User,
		Preferences: s.Preferences,
		SavedAt:     time.Now(),
	}
}

// Restore builds a fresh State from a persisted snapshot
func Restore(p Persisted) *State {
	return &State{
		User:        p.User,
		Preferences: p.Preferences,
	}
}

// IdentityFor derives the identity (with effective permissions) from a user row
func IdentityFor(u *models.User) Identity {
	role := permissions.Normalize(u.Role)
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        role,
		Permissions: permissions.PermissionsFor(role),
	}
}

// Manager loads and saves persisted state through any cache backend
type Manager struct {
	store *cache.Typed[Persisted]
}

func NewManager(store cache.Store) *Manager {
	return &Manager{store: cache.NewTyped[Persisted](store, "appstate:")}
}

// Load returns the user's state. Identity always comes from the current user
// row so role changes apply immediately; preferences come from storage.
func (m *Manager) Load(ctx context.Context, u *models.User) *State {
	identity := IdentityFor(u)

	p, ok := m.store.Get(ctx, u.ID.String())
	if !ok {
		return &State{User: identity, Preferences: DefaultPreferences()}
	}
	st := Restore(p)
	st.User = identity
	return st
}

// Save writes the persistable subset of state
func (m *Manager) Save(ctx context.Context, s *State) error {
	if err := s.Preferences.Validate(); err != nil {
		return err
	}
	return m.store.Set(ctx, s.User.ID.String(), s.Persist(), persistTTL)
}

// UpdatePreferences validates and stores new preferences for a user
func (m *Manager) UpdatePreferences(ctx context.Context, u *models.User, prefs Preferences) (*State, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	st := m.Load(ctx, u)
	st.Preferences = prefs
	if err := m.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Clear forgets everything persisted for the user (logout)
func (m *Manager) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.store.Delete(ctx, userID.String())
}
