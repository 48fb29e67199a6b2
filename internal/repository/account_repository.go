package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ravelor/dealer-inventory/internal/model"
)

const accountColumns = "account_id, account_firstname, account_lastname, account_email, account_password, account_type"

// AccountRepo manages persistence for accounts.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	var role string
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, ErrNotFound
		}
		return model.Account{}, err
	}
	a.Role = model.Role(role)
	return a, nil
}

// Create inserts a new account with the default customer role and returns
// the stored row. The caller provides an already-hashed password.
func (r *AccountRepo) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO account (account_firstname, account_lastname, account_email, account_password) VALUES (?,?,?,?)",
		firstName, lastName, email, passwordHash)
	if err != nil {
		// MySQL 1062 = duplicate key, here only the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Account{}, ErrEmailExists
		}
		return model.Account{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM account WHERE account_email=? LIMIT 1", email))
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM account WHERE account_id=? LIMIT 1", id))
}

// Update changes name and email fields and returns the updated row. The
// role and the password are not touched here.
func (r *AccountRepo) Update(ctx context.Context, id uint64, firstName, lastName, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE account SET account_firstname=?, account_lastname=?, account_email=? WHERE account_id=?",
		firstName, lastName, email, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Account{}, ErrEmailExists
		}
		return model.Account{}, err
	}
	// Re-select rather than trust RowsAffected: MySQL reports 0 affected
	// rows for a no-op update of an existing account.
	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored password hash.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE account SET account_password=? WHERE account_id=?", passwordHash, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
