package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
)

const accountColumns = `id, name, email, password_hash, is_admin, is_deleted,
	deleted_at, last_login_at, credentials_changed_at, created_at, updated_at`

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.Id, &a.Name, &a.Email, &a.PassHash, &a.Admin, &a.Deleted,
		&a.DeletedAt, &a.LastLoginAt, &a.CredentialsChangedAt, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// SaveAccount inserts a new account. The partial unique index on live
// emails turns a duplicate registration into a Conflict; soft-deleted
// accounts do not block re-registration.
func (s *Storage) SaveAccount(realm domain.Realm, account domain.Account) (domain.AccountId, error) {
	var id domain.AccountId
	err := s.db.QueryRow(fmt.Sprintf(`
		INSERT INTO %s (name, email, password_hash, is_admin)
		VALUES ($1, LOWER($2), $3, $4)
		RETURNING id`, AccountsTableName(realm)),
		account.Name, account.Email, account.PassHash, account.Admin,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return -1, internal_errors.Conflict("Email already registered")
		}
		return -1, fmt.Errorf("failed to insert account: %w", err)
	}
	return id, nil
}

// LiveAccountByEmail fetches a non-deleted account by email, case-insensitive.
func (s *Storage) LiveAccountByEmail(realm domain.Realm, email domain.Email) (domain.Account, error) {
	row := s.db.QueryRow(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE email = LOWER($1) AND NOT is_deleted`,
		accountColumns, AccountsTableName(realm)), email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, internal_errors.NotFound("Account not found")
		}
		return domain.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// AccountById fetches an account regardless of deletion state. Callers that
// require a live identity must check the Deleted flag themselves.
func (s *Storage) AccountById(realm domain.Realm, id domain.AccountId) (domain.Account, error) {
	row := s.db.QueryRow(fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1`,
		accountColumns, AccountsTableName(realm)), id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, internal_errors.NotFound("Account not found")
		}
		return domain.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// AdminAccounts returns all live accounts carrying the stored admin flag.
func (s *Storage) AdminAccounts(realm domain.Realm) ([]domain.Account, error) {
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE is_admin AND NOT is_deleted
		ORDER BY id`, accountColumns, AccountsTableName(realm)))
	if err != nil {
		return nil, fmt.Errorf("failed to query admin accounts: %w", err)
	}
	defer rows.Close()

	var admins []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Id, &a.Name, &a.Email, &a.PassHash, &a.Admin, &a.Deleted,
			&a.DeletedAt, &a.LastLoginAt, &a.CredentialsChangedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin account: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// SoftDeleteAccount marks an account deleted. The conditional update is the
// idempotence guard: a second call finds no not-deleted row and reports
// Conflict rather than silently succeeding.
func (s *Storage) SoftDeleteAccount(realm domain.Realm, id domain.AccountId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(fmt.Sprintf(`
			UPDATE %s
			SET is_deleted = TRUE,
			    deleted_at = now(),
			    credentials_changed_at = now(),
			    updated_at = now()
			WHERE id = $1 AND NOT is_deleted`, AccountsTableName(realm)), id)
		if err != nil {
			return fmt.Errorf("failed to soft-delete account: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows: %w", err)
		}
		if affected == 0 {
			return s.diagnoseAccountDeleteFailure(tx, realm, id)
		}
		return nil
	})
}

func (s *Storage) diagnoseAccountDeleteFailure(q Querier, realm domain.Realm, id domain.AccountId) error {
	var deleted bool
	err := q.QueryRow(fmt.Sprintf(`
		SELECT is_deleted FROM %s WHERE id = $1`, AccountsTableName(realm)), id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound("Account not found")
	}
	if err != nil {
		return fmt.Errorf("failed to inspect account: %w", err)
	}
	if deleted {
		return internal_errors.Conflict("Account already deleted")
	}
	return fmt.Errorf("soft delete affected no rows for live account %d", id)
}

// RestoreAccount clears the deletion flag. The live-email unique index
// rejects a restore when another live account has since taken the address.
func (s *Storage) RestoreAccount(realm domain.Realm, id domain.AccountId) error {
	result, err := s.db.Exec(fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = FALSE,
		    deleted_at = NULL,
		    credentials_changed_at = now(),
		    updated_at = now()
		WHERE id = $1 AND is_deleted`, AccountsTableName(realm)), id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return internal_errors.Conflict("Email is taken by another account")
		}
		return fmt.Errorf("failed to restore account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		var deleted bool
		err := s.db.QueryRow(fmt.Sprintf(`
			SELECT is_deleted FROM %s WHERE id = $1`, AccountsTableName(realm)), id).Scan(&deleted)
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Account not found")
		}
		if err != nil {
			return fmt.Errorf("failed to inspect account: %w", err)
		}
		return internal_errors.Conflict("Account is not deleted")
	}
	return nil
}

// UpdatePassword stores a new hash and bumps credentials_changed_at so
// tokens issued before the change stop verifying.
func (s *Storage) UpdatePassword(realm domain.Realm, id domain.AccountId, passHash string) error {
	result, err := s.db.Exec(fmt.Sprintf(`
		UPDATE %s
		SET password_hash = $1,
		    credentials_changed_at = now(),
		    updated_at = now()
		WHERE id = $2 AND NOT is_deleted`, AccountsTableName(realm)), passHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("Account not found")
	}
	return nil
}

// TouchLastLogin records a successful login. Best effort; callers log and
// continue on error.
func (s *Storage) TouchLastLogin(realm domain.Realm, id domain.AccountId) error {
	_, err := s.db.Exec(fmt.Sprintf(`
		UPDATE %s SET last_login_at = now() WHERE id = $1`,
		AccountsTableName(realm)), id)
	if err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}
