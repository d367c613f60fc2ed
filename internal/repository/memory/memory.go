// Package memory is an in-process implementation of the repository interfaces.
// It enforces the same uniqueness rules as the postgres schema and runs
// transactions against a private copy of the state that replaces the shared
// state only on commit.
package memory

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v3"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
)

type state struct {
	users         map[int32]domain.User
	properties    map[int32]domain.Property
	requests      map[int32]domain.RentalRequest
	rentals       map[int32]domain.Rental
	notifications map[int32]domain.Notification
	seq           map[string]int32
}

func newState() *state {
	return &state{
		users:         map[int32]domain.User{},
		properties:    map[int32]domain.Property{},
		requests:      map[int32]domain.RentalRequest{},
		rentals:       map[int32]domain.Rental{},
		notifications: map[int32]domain.Notification{},
		seq:           map[string]int32{},
	}
}

// clone copies every table. Stored values are replaced, never mutated in
// place, so a shallow copy of each value is enough.
func (s *state) clone() *state {
	cp := newState()
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.properties {
		cp.properties[k] = v
	}
	for k, v := range s.requests {
		cp.requests[k] = v
	}
	for k, v := range s.rentals {
		cp.rentals[k] = v
	}
	for k, v := range s.notifications {
		cp.notifications[k] = v
	}
	for k, v := range s.seq {
		cp.seq[k] = v
	}
	return cp
}

func (s *state) nextID(table string) int32 {
	s.seq[table]++
	return s.seq[table]
}

// gate serializes access to the shared state. Waiting honours the caller's
// deadline.
type gate interface {
	acquire(ctx context.Context) error
	release()
}

type semGate struct {
	sem *semaphore.Weighted
}

func newSemGate() semGate {
	return semGate{sem: semaphore.NewWeighted(1)}
}

func (g semGate) acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrTimeout, err)
	}
	return nil
}

func (g semGate) release() { g.sem.Release(1) }

// held is used by repositories bound to a transaction, whose gate is already
// owned by WithinTx.
type held struct{}

func (held) acquire(ctx context.Context) error { return ctx.Err() }
func (held) release()                          {}

type Store struct {
	gate  semGate
	state *state
	repository.UserRepository
	repository.PropertyRepository
	repository.RentalRequestRepository
	repository.RentalRepository
	repository.NotificationRepository
}

func NewStore() *Store {
	s := &Store{gate: newSemGate(), state: newState()}
	repos := s.bind(s.gate, func() *state { return s.state })
	s.UserRepository = repos.Users
	s.PropertyRepository = repos.Properties
	s.RentalRequestRepository = repos.Requests
	s.RentalRepository = repos.Rentals
	s.NotificationRepository = repos.Notifications
	return s
}

func (s *Store) bind(g gate, st func() *state) repository.Repos {
	b := base{gate: g, state: st}
	return repository.Repos{
		Users:         &userRepository{b},
		Properties:    &propertyRepository{b},
		Requests:      &rentalRequestRepository{b},
		Rentals:       &rentalRepository{b},
		Notifications: &notificationRepository{b},
	}
}

// Repos returns repositories that operate on the committed state.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:         s.UserRepository,
		Properties:    s.PropertyRepository,
		Requests:      s.RentalRequestRepository,
		Rentals:       s.RentalRepository,
		Notifications: s.NotificationRepository,
	}
}

// WithinTx holds the store exclusively while fn runs. Changes become visible
// only if fn returns nil and ctx has not expired.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repos) error) (err error) {
	if err := s.gate.acquire(ctx); err != nil {
		return err
	}
	defer s.gate.release()

	tx := s.state.clone()
	if err := fn(s.bind(held{}, func() *state { return tx })); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrTimeout, err)
	}
	s.state = tx
	return nil
}

// AddUser inserts u, assigning an id when u.ID is zero.
func (s *Store) AddUser(u domain.User) domain.User {
	_ = s.gate.sem.Acquire(context.Background(), 1)
	defer s.gate.release()
	if u.ID == 0 {
		u.ID = s.state.nextID("users")
	} else if u.ID > s.state.seq["users"] {
		s.state.seq["users"] = u.ID
	}
	s.state.users[u.ID] = u
	return u
}

// AddProperty inserts p, assigning an id when p.ID is zero.
func (s *Store) AddProperty(p domain.Property) domain.Property {
	_ = s.gate.sem.Acquire(context.Background(), 1)
	defer s.gate.release()
	if p.ID == 0 {
		p.ID = s.state.nextID("properties")
	} else if p.ID > s.state.seq["properties"] {
		s.state.seq["properties"] = p.ID
	}
	s.state.properties[p.ID] = p
	return p
}

// Fixtures is the on-disk seed format for local development.
type Fixtures struct {
	Users []struct {
		ID       int32  `yaml:"id"`
		Username string `yaml:"username"`
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
	Properties []struct {
		ID       int32  `yaml:"id"`
		OwnerID  int32  `yaml:"owner_id"`
		Locality string `yaml:"locality"`
		Address  string `yaml:"address"`
		Rent     string `yaml:"rent"`
	} `yaml:"properties"`
}

// LoadFixtures seeds users and properties from a YAML file.
func (s *Store) LoadFixtures(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixtures: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return s.Seed(f)
}

func (s *Store) Seed(f Fixtures) error {
	for _, u := range f.Users {
		role, ok := domain.ParseRole(u.Role)
		if !ok {
			return fmt.Errorf("user %d: unknown role %q", u.ID, u.Role)
		}
		s.AddUser(domain.User{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email, Role: role})
	}
	for _, p := range f.Properties {
		rent, err := parseRent(p.Rent)
		if err != nil {
			return fmt.Errorf("property %d: %w", p.ID, err)
		}
		s.AddProperty(domain.Property{ID: p.ID, OwnerID: p.OwnerID, Locality: p.Locality, Address: p.Address, Rent: rent})
	}
	return nil
}
