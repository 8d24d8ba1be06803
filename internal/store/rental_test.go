package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-market/internal/database"
	"rental-market/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestRentalStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 3, 12, 0, 0, 0, time.UTC)
	r1 := []any{1, 5, 9, "pending", now}

	t.Run("ListRentalsByUser", func(t *testing.T) {
		var c call
		db := &database.FakeDB{QueryFn: c.rows(&fakeRows{data: [][]any{r1}}, nil)}
		rs, err := ListRentalsByUser(ctx, db, 5)
		require.NoError(t, err)
		require.Equal(t, []model.Rental{{ID: 1, UserID: 5, ProductID: 9, Status: model.RentalPending, StartDate: now}}, rs)
		require.Equal(t, []any{5}, c.args)
		require.Contains(t, c.sql, "WHERE user_id = $1")

		db = &database.FakeDB{QueryFn: (&call{}).rows(nil, errors.New("db"))}
		_, err = ListRentalsByUser(ctx, db, 5)
		require.Error(t, err)
	})

	t.Run("GetRentalForUser", func(t *testing.T) {
		var c call
		db := &database.FakeDB{QueryRowFn: c.row(fakeRow{vals: r1})}
		r, err := GetRentalForUser(ctx, db, 1, 5)
		require.NoError(t, err)
		require.Equal(t, 9, r.ProductID)
		require.Equal(t, []any{1, 5}, c.args)

		db = &database.FakeDB{QueryRowFn: (&call{}).row(fakeRow{err: pgx.ErrNoRows})}
		_, err = GetRentalForUser(ctx, db, 1, 6)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GetRentalByID", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: (&call{}).row(fakeRow{vals: r1})}
		r, err := GetRentalByID(ctx, db, 1)
		require.NoError(t, err)
		require.Equal(t, model.RentalPending, r.Status)
	})

	t.Run("CreateRental", func(t *testing.T) {
		var c call
		db := &database.FakeDB{QueryRowFn: c.row(fakeRow{vals: []any{3, "pending", now}})}
		r := &model.Rental{UserID: 5, ProductID: 9}
		require.NoError(t, CreateRental(ctx, db, r))
		require.Equal(t, 3, r.ID)
		require.Equal(t, model.RentalPending, r.Status)
		require.Equal(t, now, r.StartDate)
		require.Equal(t, []any{5, 9}, c.args)
	})

	t.Run("UpdateRentalStatus", func(t *testing.T) {
		var c call
		db := &database.FakeDB{ExecFn: c.exec("UPDATE 1", nil)}
		r := &model.Rental{ID: 1, Status: model.RentalPending}
		require.NoError(t, UpdateRentalStatus(ctx, db, r, model.RentalApproved))
		require.Equal(t, model.RentalApproved, r.Status)
		require.Equal(t, []any{model.RentalApproved, 1, model.RentalPending}, c.args)

		db = &database.FakeDB{ExecFn: (&call{}).exec("UPDATE 0", nil)}
		r = &model.Rental{ID: 1, Status: model.RentalPending}
		require.ErrorIs(t, UpdateRentalStatus(ctx, db, r, model.RentalApproved), ErrConflict)
		require.Equal(t, model.RentalPending, r.Status)
	})

	t.Run("CountRentalsByDay", func(t *testing.T) {
		from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)
		day3 := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
		day5 := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
		var c call
		db := &database.FakeDB{QueryFn: c.rows(&fakeRows{data: [][]any{{day3, 2}, {day5, 1}}}, nil)}
		got, err := CountRentalsByDay(ctx, db, from, to)
		require.NoError(t, err)
		require.Equal(t, []model.DailyCount{{Day: day3, Count: 2}, {Day: day5, Count: 1}}, got)
		require.Equal(t, []any{from, to}, c.args)
		require.Contains(t, c.sql, "GROUP BY day")

		db = &database.FakeDB{QueryFn: (&call{}).rows(&fakeRows{data: [][]any{{day3, 2}}, scanErr: errors.New("scan")}, nil)}
		_, err = CountRentalsByDay(ctx, db, from, to)
		require.Error(t, err)
	})
}
