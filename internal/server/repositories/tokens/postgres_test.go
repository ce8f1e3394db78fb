package tokens

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

const (
	qLock   = `(?s)^SELECT\s+mint,\s*owner,\s*amount,\s*created_at\s+FROM\s+token_accounts\s+WHERE\s+address\s*=\s*\$1\s+FOR\s+UPDATE$`
	qGet    = `(?s)^SELECT\s+mint,\s*owner,\s*amount,\s*created_at\s+FROM\s+token_accounts\s+WHERE\s+address\s*=\s*\$1$`
	qDebit  = `(?s)^UPDATE\s+token_accounts\s+SET\s+amount\s*=\s*amount\s*-\s*\$2\s+WHERE\s+address\s*=\s*\$1\s+AND\s+amount\s*>=\s*\$2$`
	qCredit = `(?s)^UPDATE\s+token_accounts\s+SET\s+amount\s*=\s*amount\s*\+\s*\$2\s+WHERE\s+address\s*=\s*\$1$`
	qMint   = `(?s)^SELECT\s+authority,\s*decimals,\s*created_at\s+FROM\s+mints\s+WHERE\s+address\s*=\s*\$1$`
)

var accountCols = []string{"mint", "owner", "amount", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func newIdentity(t *testing.T) address.Address {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	a, err := address.FromBytes(pub)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return a
}

func TestTransfer_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	owner := newIdentity(t)
	mint, from, to := address.NewRandom(), address.NewRandom(), address.NewRandom()
	now := time.Now()

	mock.ExpectQuery(qLock).WithArgs(from).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(mint.Bytes(), owner.Bytes(), int64(1000), now))
	mock.ExpectQuery(qGet).WithArgs(to).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(mint.Bytes(), address.NewRandom().Bytes(), int64(0), now))
	mock.ExpectExec(qDebit).WithArgs(from, int64(400)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qCredit).WithArgs(to, int64(400)).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Transfer(context.Background(), from, to, 400, address.ExternalSigner(owner)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	owner := newIdentity(t)
	mint, from, to := address.NewRandom(), address.NewRandom(), address.NewRandom()
	now := time.Now()

	mock.ExpectQuery(qLock).WithArgs(from).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(mint.Bytes(), owner.Bytes(), int64(10), now))
	mock.ExpectQuery(qGet).WithArgs(to).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(mint.Bytes(), owner.Bytes(), int64(0), now))
	mock.ExpectExec(qDebit).WithArgs(from, int64(11)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Transfer(context.Background(), from, to, 11, address.ExternalSigner(owner))
	if !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransfer_WrongOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	from, to := address.NewRandom(), address.NewRandom()
	mock.ExpectQuery(qLock).WithArgs(from).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(address.NewRandom().Bytes(), newIdentity(t).Bytes(), int64(10), time.Now()))

	err := repo.Transfer(context.Background(), from, to, 1, address.ExternalSigner(newIdentity(t)))
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestTransfer_MintMismatch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	owner := newIdentity(t)
	from, to := address.NewRandom(), address.NewRandom()
	mock.ExpectQuery(qLock).WithArgs(from).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(address.NewRandom().Bytes(), owner.Bytes(), int64(10), time.Now()))
	mock.ExpectQuery(qGet).WithArgs(to).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(address.NewRandom().Bytes(), owner.Bytes(), int64(0), time.Now()))

	err := repo.Transfer(context.Background(), from, to, 1, address.ExternalSigner(owner))
	if !errors.Is(err, common.ErrMintMismatch) {
		t.Fatalf("want ErrMintMismatch, got %v", err)
	}
}

func TestTransfer_SourceNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	from := address.NewRandom()
	mock.ExpectQuery(qLock).WithArgs(from).WillReturnError(sql.ErrNoRows)

	err := repo.Transfer(context.Background(), from, address.NewRandom(), 1, address.ExternalSigner(newIdentity(t)))
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestTransfer_RejectedBeforeQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	err := repo.Transfer(context.Background(), address.NewRandom(), address.NewRandom(), 0, address.ExternalSigner(newIdentity(t)))
	if !errors.Is(err, common.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}

	d, derr := address.NewDeriver(address.NewRandom(), 4)
	if derr != nil {
		t.Fatal(derr)
	}
	derived, derr := d.Authority(address.NewRandom(), address.NewRandom())
	if derr != nil {
		t.Fatal(derr)
	}
	err = repo.Transfer(context.Background(), address.NewRandom(), address.NewRandom(), 5, address.ExternalSigner(derived))
	if !errors.Is(err, common.ErrDerivationMismatch) {
		t.Fatalf("want ErrDerivationMismatch, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no queries expected: %v", err)
	}
}

func TestMintTo(t *testing.T) {
	authority := newIdentity(t)
	mint, account := address.NewRandom(), address.NewRandom()

	t.Run("ok", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(qLock).WithArgs(account).
			WillReturnRows(sqlmock.NewRows(accountCols).AddRow(mint.Bytes(), newIdentity(t).Bytes(), int64(0), time.Now()))
		mock.ExpectQuery(qMint).WithArgs(mint).
			WillReturnRows(sqlmock.NewRows([]string{"authority", "decimals", "created_at"}).AddRow(authority.Bytes(), int16(6), time.Now()))
		mock.ExpectExec(qCredit).WithArgs(account, int64(1500)).WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.MintTo(context.Background(), account, 1500, address.ExternalSigner(authority)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("not the mint authority", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(qLock).WithArgs(account).
			WillReturnRows(sqlmock.NewRows(accountCols).AddRow(mint.Bytes(), newIdentity(t).Bytes(), int64(0), time.Now()))
		mock.ExpectQuery(qMint).WithArgs(mint).
			WillReturnRows(sqlmock.NewRows([]string{"authority", "decimals", "created_at"}).AddRow(authority.Bytes(), int16(6), time.Now()))

		err := repo.MintTo(context.Background(), account, 1, address.ExternalSigner(newIdentity(t)))
		if !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("want ErrorUnauthorized, got %v", err)
		}
	})
}

func TestGetMint_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mint := address.NewRandom()
	mock.ExpectQuery(qMint).WithArgs(mint).WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetMint(context.Background(), mint); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCreateAccount_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := &models.TokenAccount{Address: address.NewRandom(), Mint: address.NewRandom(), Owner: address.NewRandom(), CreatedAt: time.Now()}
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+token_accounts\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*0,\s*\$4\)$`).
		WithArgs(a.Address, a.Mint, a.Owner, a.CreatedAt).
		WillReturnError(errors.New("db down"))

	err := repo.CreateAccount(context.Background(), a)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreateMint_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	m := &models.Mint{Address: address.NewRandom(), Authority: address.NewRandom(), Decimals: 9, CreatedAt: time.Now()}
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+mints\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)$`).
		WithArgs(m.Address, m.Authority, int16(9), m.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreateMint(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
