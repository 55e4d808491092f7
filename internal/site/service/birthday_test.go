package service_test

import (
	"context"
	"testing"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/stretchr/testify/require"
)

func TestBirthdayList(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &service.UserService{Store: st}
	birthdays := &service.BirthdayService{Store: st}

	optedIn := adminInput("in@example.com")
	optedIn.FirstName = "Ingrid"
	optedIn.Birthday = "1992-07-01"
	optedIn.BirthdayOptIn = true
	inID, err := users.Create(ctx, optedIn)
	require.NoError(t, err)

	optedOut := adminInput("out@example.com")
	optedOut.Birthday = "1993-08-02"
	optedOut.BirthdayOptIn = false
	_, err = users.Create(ctx, optedOut)
	require.NoError(t, err)

	entries, err := birthdays.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only opted-in users are listed")
	require.Equal(t, inID, entries[0].ID)
	require.Equal(t, "Ingrid", entries[0].Name)
	require.Equal(t, "1992-07-01", entries[0].Bday)
}

func TestBirthdayList_Empty(t *testing.T) {
	ctx := context.Background()
	birthdays := &service.BirthdayService{Store: newTestStore(t)}

	entries, err := birthdays.List(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}
