package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aishumaj/express-messagely/internal/domain"
	"github.com/aishumaj/express-messagely/internal/repository"
)

var listCols = []string{"id", "body", "sent_at", "read_at", "username", "first_name", "last_name", "phone"}

func TestMessageRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := repository.NewMessageRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO messages \(from_username, to_username, body, sent_at\)`).
		WithArgs("alice", "bob", "hi bob").
		WillReturnRows(pgxmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}).
			AddRow(int64(1), "alice", "bob", "hi bob", now, (*time.Time)(nil)))

	m, err := repo.Create(context.Background(), "alice", "bob", "hi bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, "bob", m.ToUsername)
	assert.Nil(t, m.ReadAt)
}

func TestMessageRepository_Create_UnknownRecipient(t *testing.T) {
	mock := newMockPool(t)
	repo := repository.NewMessageRepository(mock)

	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs("alice", "ghost", "hello?").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), "alice", "ghost", "hello?")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageRepository_Get(t *testing.T) {
	mock := newMockPool(t)
	repo := repository.NewMessageRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM messages AS m\s+JOIN users AS f ON m.from_username = f.username\s+JOIN users AS t ON m.to_username = t.username\s+WHERE m.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "body", "sent_at", "read_at",
			"f_username", "f_first_name", "f_last_name", "f_phone",
			"t_username", "t_first_name", "t_last_name", "t_phone",
		}).AddRow(int64(1), "hi bob", now, &now,
			"alice", "Alice", "Liddell", "+15550000001",
			"bob", "Bob", "Builder", "+15550000002"))

	m, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", m.FromUser.Username)
	assert.Equal(t, "+15550000002", m.ToUser.Phone)
	require.NotNil(t, m.ReadAt)
	assert.True(t, m.IsParticipant("bob"))
	assert.False(t, m.IsParticipant("carol"))
}

func TestMessageRepository_Get_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := repository.NewMessageRepository(mock)

	mock.ExpectQuery(`FROM messages AS m`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageRepository_MarkRead(t *testing.T) {
	mock := newMockPool(t)
	repo := repository.NewMessageRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`(?s)UPDATE messages SET read_at = current_timestamp\s+WHERE id = \$1\s+RETURNING id, read_at`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "read_at"}).AddRow(int64(1), now))
	mock.ExpectQuery(`UPDATE messages SET read_at`).
		WithArgs(int64(2)).
		WillReturnError(pgx.ErrNoRows)

	rr, err := repo.MarkRead(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rr.ID)
	assert.True(t, now.Equal(rr.ReadAt))

	_, err = repo.MarkRead(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageRepository_ListFrom(t *testing.T) {
	mock := newMockPool(t)
	repo := repository.NewMessageRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`(?s)JOIN users AS u ON m.to_username = u.username\s+WHERE m.from_username = \$1\s+ORDER BY m.sent_at, m.id`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(listCols).
			AddRow(int64(1), "first", now, (*time.Time)(nil), "bob", "Bob", "Builder", "+15550000002").
			AddRow(int64(2), "second", now, &now, "carol", "Carol", "Danvers", "+15550000003"))

	got, err := repo.ListFrom(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].ToUser.Username)
	assert.Nil(t, got[0].ReadAt)
	assert.Equal(t, "carol", got[1].ToUser.Username)
	assert.NotNil(t, got[1].ReadAt)
}

func TestMessageRepository_ListTo(t *testing.T) {
	mock := newMockPool(t)
	repo := repository.NewMessageRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`(?s)JOIN users AS u ON m.from_username = u.username\s+WHERE m.to_username = \$1\s+ORDER BY m.sent_at, m.id`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows(listCols).
			AddRow(int64(1), "first", now, (*time.Time)(nil), "alice", "Alice", "Liddell", "+15550000001"))

	got, err := repo.ListTo(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].FromUser.Username)
	assert.Equal(t, "first", got[0].Body)
}

func TestMessageRepository_ListTo_Empty(t *testing.T) {
	mock := newMockPool(t)
	repo := repository.NewMessageRepository(mock)

	mock.ExpectQuery(`WHERE m.to_username = \$1`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows(listCols))

	got, err := repo.ListTo(context.Background(), "bob")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
