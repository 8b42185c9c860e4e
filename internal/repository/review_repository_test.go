package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

func TestReviewCreateAndList(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReviewRepo(db)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(uint64(7), "Great flat white", 5).
		WillReturnResult(sqlmock.NewResult(3, 1))
	rv := &model.Review{CustomerID: 7, ReviewText: "Great flat white", Rating: 5}
	require.NoError(t, repo.Create(context.Background(), rv))
	assert.Equal(t, uint64(3), rv.ID)

	mock.ExpectQuery("FROM reviews ORDER BY created_at DESC").
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows([]string{"review_id", "customer_id", "review_text", "rating", "created_at"}).
			AddRow(3, 7, "Great flat white", 5, at))
	list, err := repo.List(context.Background(), 5, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, at, list[0].CreatedAt)
}

func TestReviewDeleteOwned_Forbidden(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReviewRepo(db)

	mock.ExpectQuery("FROM reviews WHERE review_id=").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"review_id", "customer_id", "review_text", "rating", "created_at"}).
			AddRow(3, 7, "ok", 3, time.Now()))
	assert.ErrorIs(t, repo.DeleteOwned(context.Background(), 3, 8, false), ErrForbidden)
}
