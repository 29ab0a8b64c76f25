// Package memory is an in-process repository.Store. It enforces the same
// uniqueness rules as the database schema and is used as the test fake.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
)

type state struct {
	seq           uint
	users         map[uint]models.User
	skills        map[uint]models.Skill
	tags          []models.SkillTag
	profiles      map[uint]models.Profile
	projects      map[uint]models.Project
	reviews       map[uint]models.Review
	notifications map[uint]models.Notification
}

func newState() *state {
	return &state{
		users:         make(map[uint]models.User),
		skills:        make(map[uint]models.Skill),
		profiles:      make(map[uint]models.Profile),
		projects:      make(map[uint]models.Project),
		reviews:       make(map[uint]models.Review),
		notifications: make(map[uint]models.Notification),
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:           s.seq,
		users:         make(map[uint]models.User, len(s.users)),
		skills:        make(map[uint]models.Skill, len(s.skills)),
		tags:          append([]models.SkillTag(nil), s.tags...),
		profiles:      make(map[uint]models.Profile, len(s.profiles)),
		projects:      make(map[uint]models.Project, len(s.projects)),
		reviews:       make(map[uint]models.Review, len(s.reviews)),
		notifications: make(map[uint]models.Notification, len(s.notifications)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.skills {
		c.skills[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	for k, v := range s.reviews {
		c.reviews[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	return c
}

// nextID hands out ids from one sequence shared by every table.
func (s *state) nextID() uint {
	s.seq++
	return s.seq
}

// userRef returns a detached copy of the user for embedding in results.
func (s *state) userRef(id uint) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

type database struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// Store implements repository.Store. The zero value is not usable; call New.
type Store struct {
	db   *database
	inTx bool
}

func New() *Store {
	return &Store{db: &database{state: newState(), now: time.Now}}
}

// lock serializes access outside transactions. Inside a transaction the
// mutex is already held for the whole callback.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.db.mu.Lock()
	return s.db.mu.Unlock
}

func (s *Store) st() *state { return s.db.state }

func (s *Store) Users() repository.UserRepository                 { return &userRepo{s} }
func (s *Store) Skills() repository.SkillRepository               { return &skillRepo{s} }
func (s *Store) Tags() repository.TagRepository                   { return &tagRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository           { return &profileRepo{s} }
func (s *Store) Projects() repository.ProjectRepository           { return &projectRepo{s} }
func (s *Store) Reviews() repository.ReviewRepository             { return &reviewRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s} }

// Transaction holds the store lock for the duration of fn and restores the
// pre-transaction snapshot when fn fails. Nested calls share the outer lock
// and roll back only their own writes.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := s.lock()
	defer unlock()

	snapshot := s.db.state.clone()
	if err := fn(&Store{db: s.db, inTx: true}); err != nil {
		s.db.state = snapshot
		return err
	}
	return nil
}

func paginate[T any](items []T, opts repository.ListOptions) []T {
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			return []T{}
		}
		items = items[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}

// byCreated orders by creation time, then id.
func byCreated(aTime, bTime time.Time, aID, bID uint) bool {
	if !aTime.Equal(bTime) {
		return aTime.Before(bTime)
	}
	return aID < bID
}

func sortedIDs(ids []uint) []uint {
	out := append([]uint(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
