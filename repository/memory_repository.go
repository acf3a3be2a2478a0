package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/techmaster-vietnam/roleapi/core"
	"github.com/techmaster-vietnam/roleapi/models"
	"github.com/techmaster-vietnam/roleapi/utils"
)

// MemoryStore implements RoleStore and UserRoleAssignment using in-memory storage.
// Roles are listed in insertion order.
type MemoryStore struct {
	mu        sync.RWMutex
	roles     []models.Role
	roleIndex map[string]int                       // role name -> index trong roles
	users     map[uuid.UUID]models.User            // userID -> User (không kèm Roles)
	userRoles map[uuid.UUID]map[uuid.UUID]struct{} // userID -> set roleID
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roles:     make([]models.Role, 0),
		roleIndex: make(map[string]int),
		users:     make(map[uuid.UUID]models.User),
		userRoles: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// CreateRole creates a new role
func (s *MemoryStore) CreateRole(ctx context.Context, role *models.Role) error {
	if errs := utils.ValidateRoleName(role.Name); len(errs) > 0 {
		return core.Validation(errs...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roleIndex[role.Name]; ok {
		return core.Validation(utils.DuplicateRoleName(role.Name))
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	s.roleIndex[role.Name] = len(s.roles)
	s.roles = append(s.roles, models.Role{ID: role.ID, Name: role.Name})
	return nil
}

// FindRoleByName retrieves a role by name
func (s *MemoryStore) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.roleIndex[name]
	if !ok {
		return nil, core.NotFound(fmt.Sprintf("role '%s' not found", name))
	}
	role := s.roles[idx]
	return &role, nil
}

// ListRoles returns all roles
func (s *MemoryStore) ListRoles(ctx context.Context) ([]models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]models.Role, len(s.roles))
	copy(roles, s.roles)
	return roles, nil
}

// CreateUser adds a user directly (for seeding and tests)
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return core.Validation(utils.DuplicateUserName(user.Username))
		}
	}
	s.users[user.ID] = models.User{ID: user.ID, Username: user.Username, Email: user.Email}
	s.userRoles[user.ID] = make(map[uuid.UUID]struct{})
	return nil
}

// FindUserByID retrieves a user by ID with its roles
func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, core.NotFound(fmt.Sprintf("user '%s' not found", id))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, core.NotFound(fmt.Sprintf("user '%s' not found", id))
	}
	user.Roles = s.rolesOfLocked(userID)
	return &user, nil
}

// AddToRole adds a user to a role
func (s *MemoryStore) AddToRole(ctx context.Context, user *models.User, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.roleIndex[roleName]
	if !ok {
		return fmt.Errorf("role %s does not exist", roleName)
	}
	memberships, ok := s.userRoles[user.ID]
	if !ok {
		return core.NotFound(fmt.Sprintf("user '%s' not found", user.ID))
	}
	roleID := s.roles[idx].ID
	if _, exists := memberships[roleID]; exists {
		return core.Failed(core.CodeUserAlreadyInRole, fmt.Sprintf("User already in role '%s'.", roleName))
	}
	memberships[roleID] = struct{}{}
	return nil
}

// RemoveFromRole removes a user from a role
// Role không tồn tại và user không có role đều trả về UserNotInRole
func (s *MemoryStore) RemoveFromRole(ctx context.Context, user *models.User, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	memberships, ok := s.userRoles[user.ID]
	if !ok {
		return core.NotFound(fmt.Sprintf("user '%s' not found", user.ID))
	}
	idx, ok := s.roleIndex[roleName]
	if !ok {
		return core.Failed(core.CodeUserNotInRole, fmt.Sprintf("User is not in role '%s'.", roleName))
	}
	roleID := s.roles[idx].ID
	if _, exists := memberships[roleID]; !exists {
		return core.Failed(core.CodeUserNotInRole, fmt.Sprintf("User is not in role '%s'.", roleName))
	}
	delete(memberships, roleID)
	return nil
}

// IsInRole checks if a user has a specific role
func (s *MemoryStore) IsInRole(ctx context.Context, user *models.User, roleName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.roleIndex[roleName]
	if !ok {
		return false, nil
	}
	_, exists := s.userRoles[user.ID][s.roles[idx].ID]
	return exists, nil
}

// RoleNamesOfUser returns the names of the roles held by userID, in role order
func (s *MemoryStore) RoleNamesOfUser(userID uuid.UUID) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := s.rolesOfLocked(userID)
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}

// rolesOfLocked must be called with s.mu held
func (s *MemoryStore) rolesOfLocked(userID uuid.UUID) []models.Role {
	memberships := s.userRoles[userID]
	roles := make([]models.Role, 0, len(memberships))
	for _, role := range s.roles {
		if _, ok := memberships[role.ID]; ok {
			roles = append(roles, role)
		}
	}
	return roles
}
