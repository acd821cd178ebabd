package storage_memory

import (
	"context"
	"sort"
	"sync"

	"github.com/burningsawals/core/internal/model"
	"github.com/burningsawals/core/internal/storage"
)

type interactionKey struct {
	questionID int64
	userID     string
}

// Interactions records at most one active reaction per (user, question).
type Interactions struct {
	mu      sync.Mutex
	active  map[interactionKey]model.Reaction
	catalog *Catalog
	users   *Users
}

func NewInteractions(catalog *Catalog, users *Users) *Interactions {
	return &Interactions{
		active:  make(map[interactionKey]model.Reaction),
		catalog: catalog,
		users:   users,
	}
}

func (s *Interactions) Add(ctx context.Context, questionID int64, userID string, kind model.Reaction) error {
	if _, err := s.catalog.QuestionByID(ctx, questionID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[interactionKey{questionID, userID}] = kind
	return nil
}

func (s *Interactions) Remove(ctx context.Context, questionID int64, userID string, kind model.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := interactionKey{questionID, userID}
	if s.active[key] != kind {
		return storage.ErrNotFound
	}
	delete(s.active, key)
	return nil
}

func (s *Interactions) ActiveKind(_ context.Context, questionID int64, userID string) (model.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[interactionKey{questionID, userID}], nil
}

func (s *Interactions) UserStats(ctx context.Context) ([]model.UserStat, error) {
	s.mu.Lock()
	perUser := make(map[string]*model.UserStat)
	for key, kind := range s.active {
		stat, ok := perUser[key.userID]
		if !ok {
			stat = &model.UserStat{UserID: key.userID}
			perUser[key.userID] = stat
		}
		stat.Swipes++
		switch kind {
		case model.ReactionLike:
			stat.Likes++
		case model.ReactionDislike:
			stat.Dislikes++
		case model.ReactionSuperLike:
			stat.SuperLikes++
		}
	}
	s.mu.Unlock()

	out := make([]model.UserStat, 0, len(perUser))
	for userID, stat := range perUser {
		if usr, err := s.users.UserByID(ctx, userID); err == nil {
			stat.UserName = usr.UserName
			stat.PhoneOrEmail = usr.PhoneOrEmail
		}
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *Interactions) TopQuestions(ctx context.Context, limit int) ([]model.TopQuestion, error) {
	s.mu.Lock()
	likes := make(map[int64]int)
	for key, kind := range s.active {
		if kind == model.ReactionLike || kind == model.ReactionSuperLike {
			likes[key.questionID]++
		}
	}
	s.mu.Unlock()

	out := make([]model.TopQuestion, 0, len(likes))
	for questionID, n := range likes {
		q, err := s.catalog.QuestionByID(ctx, questionID)
		if err != nil {
			continue
		}
		out = append(out, model.TopQuestion{Question: q, Likes: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Likes > out[j].Likes })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
