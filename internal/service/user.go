package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/storage"
)

type UserService struct {
	store storage.Store
}

func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// Registration is the outcome of FindOrCreate: the user, whether the row was
// just created, and the referrer bound during creation, if any.
type Registration struct {
	User         *domain.User
	Created      bool
	Referrer     *domain.User
	SelfReferral bool
}

// FindOrCreate loads the user by platform identity, creating the row on
// first contact. A referrer is bound only for brand-new users and at most
// once; a user's own referral link is never honored.
func (s *UserService) FindOrCreate(ctx context.Context, telegramID int64, username string, referrerTelegramID int64) (*Registration, error) {
	user, err := s.store.GetUserByTelegramID(ctx, telegramID)
	if err == nil {
		if username != "" && username != user.Username {
			if err := s.store.UpdateUsername(ctx, user.ID, username); err != nil {
				return nil, fmt.Errorf("update username: %w", err)
			}
			user.Username = username
		}
		return &Registration{User: user}, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	reg := &Registration{Created: true}
	err = s.store.WithTx(ctx, func(st storage.Store) error {
		user, err := st.CreateUser(ctx, telegramID, username)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		reg.User = user

		if referrerTelegramID == 0 {
			return nil
		}
		if referrerTelegramID == telegramID {
			reg.SelfReferral = true
			return nil
		}

		referrer, err := st.GetUserByTelegramID(ctx, referrerTelegramID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil
			}
			return fmt.Errorf("get referrer: %w", err)
		}
		if err := st.SetReferrer(ctx, user.ID, referrer.ID); err != nil {
			return fmt.Errorf("set referrer: %w", err)
		}
		rid := referrer.ID
		reg.User.ReferrerID = &rid
		reg.Referrer = referrer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// ToggleBan flips the ban flag and returns the updated user.
func (s *UserService) ToggleBan(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithTx(ctx, func(st storage.Store) error {
		u, err := st.GetUserForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := st.SetBanned(ctx, id, !u.Banned); err != nil {
			return err
		}
		u.Banned = !u.Banned
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, limit int) ([]domain.User, error) {
	return s.store.ListUsers(ctx, limit)
}

func (s *UserService) Overview(ctx context.Context, id int64) (*domain.UserOverview, error) {
	return s.store.GetUserOverview(ctx, id)
}

func (s *UserService) RecentReferralEarnings(ctx context.Context, referrerID int64, limit int) ([]domain.ReferralEarningDetail, error) {
	return s.store.ListReferralEarnings(ctx, referrerID, limit)
}

func (s *UserService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.store.GetStats(ctx)
}
