package storage_memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/burningsawals/core/internal/model"
	"github.com/burningsawals/core/internal/storage"
)

type Users struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by user id
}

func NewUsers() *Users {
	return &Users{
		users: make(map[string]*model.User),
	}
}

func (u *Users) UserByIdentifier(_ context.Context, identifier string) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, usr := range u.users {
		if usr.PhoneOrEmail == identifier {
			return *usr, nil
		}
	}
	return model.User{}, storage.ErrNotFound
}

func (u *Users) UserByID(_ context.Context, id string) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	usr, ok := u.users[id]
	if !ok {
		return model.User{}, storage.ErrNotFound
	}
	return *usr, nil
}

func (u *Users) CreateUser(_ context.Context, identifier, userName string) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, usr := range u.users {
		if usr.PhoneOrEmail == identifier {
			return model.User{}, storage.ErrConflict
		}
	}
	usr := &model.User{
		UserID:       uuid.New().String(),
		PhoneOrEmail: identifier,
		UserName:     userName,
	}
	u.users[usr.UserID] = usr
	return *usr, nil
}

func (u *Users) UserNameTaken(_ context.Context, userName string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, usr := range u.users {
		if strings.EqualFold(usr.UserName, userName) {
			return true, nil
		}
	}
	return false, nil
}
