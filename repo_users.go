package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the credential store contract consumed by the engine. Every
// method is a single context aware operation with no internal retry;
// transient store failures propagate unmodified so retry policy stays
// with the caller.
type Users interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User, at time.Time) error
	SetVerified(ctx context.Context, id int64, at time.Time) (*User, error)
}

type users struct {
	db bun.IDB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns the bun backed credential store
func NewUsersRepository(db bun.IDB) Users {
	return &users{db: db}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.getBy(ctx, "email", email)
}

func (a *users) GetByPhone(ctx context.Context, phone string) (*User, error) {
	return a.getBy(ctx, "phone_number", phone)
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	return a.getBy(ctx, "id", id)
}

func (a *users) getBy(ctx context.Context, column string, value any) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound.WithMetadata(map[string]any{
				column: value,
			})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
}

func (a *users) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.phone_number = ?", phone).
		Exists(ctx)
}

// Create inserts the record and assigns its id. The unique indexes on
// email and phone_number are the backstop for the racy pre-check in
// Register: a duplicate insert surfaces as Conflict here regardless of
// what the pre-checks saw.
func (a *users) Create(ctx context.Context, user *User) (*User, error) {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	if _, err := a.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if conflictErr := uniqueViolation(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, err
	}

	return user, nil
}

func (a *users) Update(ctx context.Context, user *User) (*User, error) {
	res, err := a.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrUserNotFound.WithMetadata(map[string]any{
			"id": user.ID,
		})
	}

	return user, nil
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User, at time.Time) error {
	_, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("last_login = ?", at).
		Set("updated_at = ?", at).
		Where("id = ?", user.ID).
		Exec(ctx)

	if err == nil {
		user.LastLogin = &at
		user.UpdatedAt = at
	}

	return err
}

// SetVerified marks the account verified. The statement is idempotent:
// a repeat call leaves is_verified true and only moves updated_at.
func (a *users) SetVerified(ctx context.Context, id int64, at time.Time) (*User, error) {
	res, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("is_verified = ?", true).
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrUserNotFound.WithMetadata(map[string]any{
			"id": id,
		})
	}

	return a.GetByID(ctx, id)
}

// uniqueViolation maps driver level unique constraint failures onto the
// Conflict kinds. Covers sqlite ("UNIQUE constraint failed") and
// postgres ("duplicate key value violates unique constraint") wording.
func uniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique constraint") && !strings.Contains(msg, "duplicate key") {
		return nil
	}

	if strings.Contains(msg, "phone") {
		return ErrPhoneTaken.WithMetadata(map[string]any{"cause": err.Error()})
	}

	return ErrEmailTaken.WithMetadata(map[string]any{"cause": err.Error()})
}
