package backers

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	qUpsert = `(?s)^INSERT\s+INTO\s+backers\b.*ON\s+CONFLICT\s+\(address\)\s+DO\s+UPDATE\s+SET\s+amount\s*=\s*backers\.amount\s*\+\s*EXCLUDED\.amount.*RETURNING\s+amount,\s*created_at,\s*updated_at$`
	qSelect = `(?s)^SELECT\s+campaign,\s*backer,\s*amount,\s*created_at,\s*updated_at\s+FROM\s+backers\s+WHERE\s+address\s*=\s*\$1$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestAdd_ReturnsAccumulatedAmount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	first := now.Add(-time.Hour)
	in := &models.Backer{
		Address: address.NewRandom(), Campaign: address.NewRandom(), Backer: address.NewRandom(),
		Amount: 500, UpdatedAt: now,
	}

	mock.ExpectQuery(qUpsert).
		WithArgs(in.Address, in.Campaign, in.Backer, int64(500), now).
		WillReturnRows(sqlmock.NewRows([]string{"amount", "created_at", "updated_at"}).AddRow(int64(1500), first, now))

	got, err := repo.Add(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.Amount)
	assert.Equal(t, first, got.CreatedAt)
	assert.Equal(t, int64(500), in.Amount, "input must not be modified")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qUpsert).WillReturnError(errors.New("check violation"))
	_, err := repo.Add(context.Background(), &models.Backer{Amount: 1})
	assert.Regexp(t, `db error: .*check violation`, err.Error())
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rec, campaign, backer := address.NewRandom(), address.NewRandom(), address.NewRandom()
	now := time.Now()

	mock.ExpectQuery(qSelect).WithArgs(rec).
		WillReturnRows(sqlmock.NewRows([]string{"campaign", "backer", "amount", "created_at", "updated_at"}).
			AddRow(campaign.Bytes(), backer.Bytes(), int64(1000), now, now))

	got, err := repo.Get(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, campaign, got.Campaign)
	assert.Equal(t, backer, got.Backer)
	assert.Equal(t, int64(1000), got.Amount)

	mock.ExpectQuery(qSelect).WithArgs(rec).WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), rec)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
