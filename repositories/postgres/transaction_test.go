package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/repositories"
	"github.com/upb/forum-backend/services"
	"go.uber.org/zap"
)

func TestTransactionManager_WithTransactionResult(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and routes queries through the transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())
		users := NewUserRepository(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users SET password_hash").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		_, err := services.WithTransactionResult(ctx, tm, func(txCtx context.Context, _ repositories.Transaction) (struct{}, error) {
			return struct{}{}, users.UpdatePassword(txCtx, "john", "hash")
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())
		posts := NewPostRepository(db, zap.NewNop())
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO posts").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		_, err := services.WithTransactionResult(ctx, tm, func(txCtx context.Context, _ repositories.Transaction) (*models.Post, error) {
			post := models.NewPost("alex", "T", "C", nil)
			if err := posts.Create(txCtx, post); err != nil {
				return nil, err
			}
			return post, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		called := false
		_, err := services.WithTransactionResult(ctx, tm, func(context.Context, repositories.Transaction) (int, error) {
			called = true
			return 0, nil
		})
		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestTransaction_RollbackAfterCommitIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManager(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := tm.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor_WithoutTransaction(t *testing.T) {
	db, _ := newMockDB(t)
	assert.Equal(t, db.DB, GetExecutor(context.Background(), db))
}
