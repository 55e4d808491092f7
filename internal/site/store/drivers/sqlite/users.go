package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/hearthside/homesite/internal/site/domain"
	"github.com/hearthside/homesite/internal/site/store"
)

const userColumns = `id, email, firstname, lastname, birthday, birthday_opt_in,
	is_admin, capabilities, password_hash, reset_token_hash, reset_token_expiry,
	api_key, api_secret_hash, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u                domain.User
		birthday         sql.NullString
		capabilities     string
		resetTokenHash   sql.NullString
		resetTokenExpiry sql.NullTime
		apiKey           sql.NullString
		apiSecretHash    sql.NullString
	)

	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &birthday, &u.BirthdayOptIn,
		&u.IsAdmin, &capabilities, &u.PasswordHash, &resetTokenHash, &resetTokenExpiry,
		&apiKey, &apiSecretHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Birthday = mapNullStringPtr(birthday)
	u.Capabilities = splitCapabilities(capabilities)
	u.ResetTokenHash = mapNullStringPtr(resetTokenHash)
	u.ResetTokenExpiry = mapNullTimePtr(resetTokenExpiry)
	u.APIKey = mapNullStringPtr(apiKey)
	u.APISecretHash = mapNullStringPtr(apiSecretHash)

	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *usersRepo) ListBirthdayUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE birthday_opt_in = 1 ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, firstname, lastname, birthday, birthday_opt_in,
			is_admin, capabilities, password_hash, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FirstName, u.LastName, mapOptionalString(u.Birthday),
		u.BirthdayOptIn, u.IsAdmin, joinCapabilities(u.Capabilities),
		u.PasswordHash, now, now,
	)
	return mapUnique(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			email = ?, firstname = ?, lastname = ?, birthday = ?,
			birthday_opt_in = ?, is_admin = ?, password_hash = ?, updated_at = ?
		WHERE id = ?`,
		u.Email, u.FirstName, u.LastName, mapOptionalString(u.Birthday),
		u.BirthdayOptIn, u.IsAdmin, u.PasswordHash, time.Now().UTC(),
		u.ID,
	)
	if err != nil {
		return mapUnique(err)
	}
	return requireRowsAffected(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *usersRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiry time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET reset_token_hash = ?, reset_token_expiry = ?, updated_at = ?
		WHERE id = ?`,
		tokenHash, expiry.UTC(), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// ConsumePasswordReset is a single conditional update, so the validity check
// and the mutation cannot race: a second submission of the same token finds
// no matching row.
func (r *usersRepo) ConsumePasswordReset(
	ctx context.Context,
	tokenHash string,
	now time.Time,
	newPasswordHash string,
) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			password_hash = ?, reset_token_hash = NULL,
			reset_token_expiry = NULL, updated_at = ?
		WHERE reset_token_hash = ? AND reset_token_expiry > ?
		RETURNING id`,
		newPasswordHash, now.UTC(), tokenHash, now.UTC(),
	)

	var id string
	if err := row.Scan(&id); err != nil {
		return "", mapNotFound(err)
	}
	return id, nil
}

func (r *usersRepo) SetAPICredentials(ctx context.Context, userID, apiKey, secretHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET api_key = ?, api_secret_hash = ?, updated_at = ?
		WHERE id = ?`,
		apiKey, secretHash, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *usersRepo) UpdateCapabilities(ctx context.Context, userID string, capabilities []string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET capabilities = ?, updated_at = ? WHERE id = ?`,
		joinCapabilities(capabilities), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
