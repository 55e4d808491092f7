package service

import (
	"context"

	"github.com/hearthside/homesite/internal/site/domain"
	"github.com/hearthside/homesite/internal/site/store"
)

// BirthdayService backs the public birthdays listing.
type BirthdayService struct {
	Store store.Store
}

// List returns the opted-in users projected to exactly {id, name, bday}.
func (s *BirthdayService) List(ctx context.Context) ([]domain.BirthdayEntry, error) {
	users, err := s.Store.Users().ListBirthdayUsers(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.BirthdayEntry, 0, len(users))
	for _, u := range users {
		var bday string
		if u.Birthday != nil {
			bday = *u.Birthday
		}
		entries = append(entries, domain.BirthdayEntry{
			ID:   u.ID,
			Name: u.FirstName,
			Bday: bday,
		})
	}
	return entries, nil
}
