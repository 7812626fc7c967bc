package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	database "github.com/FACorreiaa/go-policy-admin/app/db"
	"github.com/FACorreiaa/go-policy-admin/internal/api/policy"
	"github.com/FACorreiaa/go-policy-admin/internal/api/user"
	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

// Store is an in-memory implementation of the repositories. It is safe for
// concurrent use and enforces the same unique keys as the Postgres schema.
// It is intended for tests and local development.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]types.User
	policies map[uuid.UUID]types.Policy
	links    map[uuid.UUID]types.UserPolicy
	now      func() time.Time
}

var (
	_ user.UserRepo         = UserStore{}
	_ policy.PolicyRepo     = PolicyStore{}
	_ policy.UserPolicyRepo = UserPolicyStore{}
)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:    make(map[uuid.UUID]types.User),
		policies: make(map[uuid.UUID]types.Policy),
		links:    make(map[uuid.UUID]types.UserPolicy),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// UserStore, PolicyStore and UserPolicyStore expose one repository each over
// the shared maps.
type (
	UserStore       struct{ s *Store }
	PolicyStore     struct{ s *Store }
	UserPolicyStore struct{ s *Store }
)

func (s *Store) Users() UserStore { return UserStore{s} }

func (s *Store) Policies() PolicyStore { return PolicyStore{s} }

func (s *Store) UserPolicies() UserPolicyStore { return UserPolicyStore{s} }

// Seed loads fixtures, skipping rows whose unique keys already exist.
func (s *Store) Seed(fx database.Fixtures) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range fx.Policies {
		if _, taken := s.policyByNameLocked(p.Name); !taken {
			s.policies[p.ID] = p
		}
	}
	for _, nu := range fx.Users {
		if s.usernameTakenLocked(nu.Username, uuid.Nil) || s.emailTakenLocked(nu.Email, uuid.Nil) {
			continue
		}
		s.users[nu.ID] = s.newUserLocked(nu)
	}
	for _, a := range fx.Assignments {
		u, ok := s.userByUsernameLocked(a.Username)
		if !ok {
			continue
		}
		p, ok := s.policyByNameLocked(a.PolicyName)
		if !ok {
			continue
		}
		if _, linked := s.linkLocked(u.ID, p.ID); linked {
			continue
		}
		id := uuid.New()
		s.links[id] = types.UserPolicy{ID: id, UserID: u.ID, PolicyID: p.ID, CreatedAt: s.now()}
	}
}

func cloneUser(u types.User) types.User {
	if u.ProfileImageURL != nil {
		v := *u.ProfileImageURL
		u.ProfileImageURL = &v
	}
	return u
}

func (s *Store) newUserLocked(nu types.NewUser) types.User {
	now := s.now()
	return cloneUser(types.User{
		ID:              nu.ID,
		Username:        nu.Username,
		FirstName:       nu.FirstName,
		LastName:        nu.LastName,
		DateOfBirth:     nu.DateOfBirth.UTC(),
		Address:         nu.Address,
		PhoneNumber:     nu.PhoneNumber,
		Email:           nu.Email,
		ProfileImageURL: nu.ProfileImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (s *Store) userByUsernameLocked(username string) (types.User, bool) {
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return types.User{}, false
}

func (s *Store) userByEmailLocked(email string) (types.User, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return types.User{}, false
}

func (s *Store) usernameTakenLocked(username string, except uuid.UUID) bool {
	u, ok := s.userByUsernameLocked(username)
	return ok && u.ID != except
}

func (s *Store) emailTakenLocked(email string, except uuid.UUID) bool {
	u, ok := s.userByEmailLocked(email)
	return ok && u.ID != except
}

func (s *Store) policyByNameLocked(name string) (types.Policy, bool) {
	for _, p := range s.policies {
		if p.Name == name {
			return p, true
		}
	}
	return types.Policy{}, false
}

func (s *Store) linkLocked(userID, policyID uuid.UUID) (types.UserPolicy, bool) {
	for _, l := range s.links {
		if l.UserID == userID && l.PolicyID == policyID {
			return l, true
		}
	}
	return types.UserPolicy{}, false
}

// withPoliciesLocked attaches the user's links ordered by assignment time, then policy name.
func (s *Store) withPoliciesLocked(u types.User) types.UserWithPolicies {
	policies := []types.UserPolicyWithPolicy{}
	for _, l := range s.links {
		if l.UserID == u.ID {
			policies = append(policies, types.UserPolicyWithPolicy{UserPolicy: l, Policy: s.policies[l.PolicyID]})
		}
	}
	sort.Slice(policies, func(i, j int) bool {
		if !policies[i].CreatedAt.Equal(policies[j].CreatedAt) {
			return policies[i].CreatedAt.Before(policies[j].CreatedAt)
		}
		return policies[i].Policy.Name < policies[j].Policy.Name
	})
	return types.UserWithPolicies{User: cloneUser(u), Policies: policies}
}

// UserRepo -------------------------------------------------------------------

func (r UserStore) FindAll(_ context.Context) ([]types.UserWithPolicies, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]types.UserWithPolicies, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, r.s.withPoliciesLocked(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		return users[i].FirstName < users[j].FirstName
	})
	return users, nil
}

func (r UserStore) FindByID(_ context.Context, id uuid.UUID) (*types.UserWithPolicies, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found: %w", id, types.ErrNotFound)
	}
	withPolicies := r.s.withPoliciesLocked(u)
	return &withPolicies, nil
}

func (r UserStore) FindByUsername(_ context.Context, username string) (*types.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.userByUsernameLocked(username)
	if !ok {
		return nil, fmt.Errorf("no user with that username: %w", types.ErrNotFound)
	}
	u = cloneUser(u)
	return &u, nil
}

func (r UserStore) FindByEmail(_ context.Context, email string) (*types.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.userByEmailLocked(email)
	if !ok {
		return nil, fmt.Errorf("no user with that email: %w", types.ErrNotFound)
	}
	u = cloneUser(u)
	return &u, nil
}

func (r UserStore) Create(_ context.Context, nu types.NewUser) (*types.UserWithPolicies, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.usernameTakenLocked(nu.Username, uuid.Nil) {
		return nil, types.NewConflictError(types.MsgUsernameExists)
	}
	if r.s.emailTakenLocked(nu.Email, uuid.Nil) {
		return nil, types.NewConflictError(types.MsgEmailExists)
	}

	u := r.s.newUserLocked(nu)
	r.s.users[u.ID] = u
	return &types.UserWithPolicies{User: cloneUser(u), Policies: []types.UserPolicyWithPolicy{}}, nil
}

func (r UserStore) Update(_ context.Context, id uuid.UUID, c types.UserChanges) (*types.UserWithPolicies, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found for update: %w", id, types.ErrNotFound)
	}
	if c.Empty() {
		withPolicies := r.s.withPoliciesLocked(u)
		return &withPolicies, nil
	}

	if c.Username != nil {
		if r.s.usernameTakenLocked(*c.Username, id) {
			return nil, types.NewConflictError(types.MsgUsernameExists)
		}
		u.Username = *c.Username
	}
	if c.Email != nil {
		if r.s.emailTakenLocked(*c.Email, id) {
			return nil, types.NewConflictError(types.MsgEmailExists)
		}
		u.Email = *c.Email
	}
	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.DateOfBirth != nil {
		u.DateOfBirth = c.DateOfBirth.UTC()
	}
	if c.Address != nil {
		u.Address = *c.Address
	}
	if c.PhoneNumber != nil {
		u.PhoneNumber = *c.PhoneNumber
	}
	if c.ProfileImageURL.Set {
		u.ProfileImageURL = c.ProfileImageURL.Value
	}
	u.UpdatedAt = r.s.now()

	u = cloneUser(u)
	r.s.users[id] = u
	withPolicies := r.s.withPoliciesLocked(u)
	return &withPolicies, nil
}

func (r UserStore) UpdateProfileImage(_ context.Context, id uuid.UUID, imageURL string) (*types.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found for image update: %w", id, types.ErrNotFound)
	}
	u.ProfileImageURL = &imageURL
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u

	u = cloneUser(u)
	return &u, nil
}

// PolicyRepo -----------------------------------------------------------------

func (r PolicyStore) FindAll(_ context.Context) ([]types.Policy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	policies := make([]types.Policy, 0, len(r.s.policies))
	for _, p := range r.s.policies {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Name < policies[j].Name })
	return policies, nil
}

func (r PolicyStore) FindByID(_ context.Context, id uuid.UUID) (*types.Policy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.policies[id]
	if !ok {
		return nil, fmt.Errorf("policy %s not found: %w", id, types.ErrNotFound)
	}
	return &p, nil
}

// UserPolicyRepo -------------------------------------------------------------

func (r UserPolicyStore) FindByUserAndPolicy(_ context.Context, userID, policyID uuid.UUID) (*types.UserPolicy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.linkLocked(userID, policyID)
	if !ok {
		return nil, fmt.Errorf("user %s has no policy %s: %w", userID, policyID, types.ErrNotFound)
	}
	return &l, nil
}

func (r UserPolicyStore) Create(_ context.Context, link types.UserPolicy) (*types.UserPolicyWithPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[link.UserID]; !ok {
		return nil, types.NewNotFoundError(types.MsgUserNotFound)
	}
	p, ok := r.s.policies[link.PolicyID]
	if !ok {
		return nil, types.NewNotFoundError(types.MsgPolicyNotFound)
	}
	if _, linked := r.s.linkLocked(link.UserID, link.PolicyID); linked {
		return nil, types.NewBadRequestError(types.MsgPolicyAlreadyAssigned)
	}

	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	link.CreatedAt = r.s.now()
	r.s.links[link.ID] = link
	return &types.UserPolicyWithPolicy{UserPolicy: link, Policy: p}, nil
}

func (r UserPolicyStore) Delete(_ context.Context, userID, policyID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.linkLocked(userID, policyID)
	if !ok {
		return types.NewBadRequestError(types.MsgPolicyNotAssigned)
	}
	delete(r.s.links, l.ID)
	return nil
}
