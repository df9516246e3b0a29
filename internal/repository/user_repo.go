package repository

import (
	"context"
	"errors"

	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"

	"gorm.io/gorm"
)

// UserFilter narrows ListExcept. Empty fields don't filter.
type UserFilter struct {
	Gender string // exact match
	Bio    string // case-sensitive substring
}

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts u. A taken username yields ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.ErrDuplicateUsername
	}
	return err
}

// GetByID returns ErrNotFound when no user has the id.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns ErrNotFound when the username is unknown.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists reports whether a user with id exists.
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListExcept returns every user but excludeID, narrowed by f.
//
// Behavior:
//   - Gender compares exactly.
//   - Bio is case-sensitive containment on every supported dialect.
//   - Filters are ANDed; results come back in id order.
func (r *UserRepository) ListExcept(ctx context.Context, excludeID uint64, f UserFilter) ([]db.User, error) {
	query := r.db.WithContext(ctx).
		Where("id <> ?", excludeID)

	if f.Gender != "" {
		query = query.Where("gender = ?", f.Gender)
	}
	if f.Bio != "" {
		query = query.Where(containsExpr(r.db.Dialector.Name(), "bio"), f.Bio)
	}

	var users []db.User
	err := query.Order("id ASC").Find(&users).Error
	return users, err
}

// ListByIDs returns the users with the given ids in id order.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []uint64) ([]db.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []db.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&users).Error
	return users, err
}

// UpdateProfile writes the given columns (bio, profile_picture) for id.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Updates(fields).Error
}

// containsExpr builds a case-sensitive "column contains ?" predicate.
// LIKE is case-insensitive on sqlite and on MySQL's default collations.
func containsExpr(dialect, column string) string {
	switch dialect {
	case "mysql":
		return "INSTR(BINARY " + column + ", ?) > 0"
	case "postgres":
		return "strpos(" + column + ", ?) > 0"
	default:
		return "instr(" + column + ", ?) > 0"
	}
}
