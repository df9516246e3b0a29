package repository

import (
	"context"

	"github.com/oggyb/muzz-web/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository provides data access methods for the Like model.
// It encapsulates all queries related to directed likes between users.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Like records that liker likes liked.
//
// Behavior:
//   - If the (liker_id, liked_id) pair already exists → no-op, no error.
//   - Otherwise a new row is inserted.
//   - The composite PK + ON CONFLICT DO NOTHING make this a single atomic
//     statement, so two concurrent likes cannot produce a duplicate edge.
//
// Example:
//
//	repo.Like(ctx, 1, 2) // user 1 liked user 2
func (r *LikeRepository) Like(ctx context.Context, likerID, likedID uint64) error {
	like := db.Like{
		LikerID: likerID,
		LikedID: likedID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liker_id"}, {Name: "liked_id"}},
			DoNothing: true,
		}).
		Create(&like).Error
}

// Unlike removes the liker → liked edge if it exists. Missing edges are a no-op.
func (r *LikeRepository) Unlike(ctx context.Context, likerID, likedID uint64) error {
	return r.db.WithContext(ctx).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Delete(&db.Like{}).Error
}

// HasLiked checks whether liker has liked liked.
//
// Example:
//
//	repo.HasLiked(ctx, 1, 2) // -> true if user 1 liked user 2
func (r *LikeRepository) HasLiked(ctx context.Context, likerID, likedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Count(&count).Error
	return count > 0, err
}

// LikesOf returns the users userID has liked, oldest like first.
func (r *LikeRepository) LikesOf(ctx context.Context, userID uint64) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN likes l ON l.liked_id = users.id").
		Where("l.liker_id = ?", userID).
		Order("l.created_at ASC, l.liked_id ASC").
		Find(&users).Error
	return users, err
}

// LikedBy returns the users who liked userID, oldest like first.
func (r *LikeRepository) LikedBy(ctx context.Context, userID uint64) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN likes l ON l.liker_id = users.id").
		Where("l.liked_id = ?", userID).
		Order("l.created_at ASC, l.liker_id ASC").
		Find(&users).Error
	return users, err
}

// Matches returns users that userID liked and who liked userID back.
//
// Behavior:
//   - Result = LikesOf(userID) ∩ LikedBy(userID).
//   - Ordered like LikesOf: by the time userID liked them, then by id.
//   - One self-join on likes instead of a HasLiked lookup per liked user.
//
// Example:
//
//	repo.Matches(ctx, 42) // everyone user 42 matched with
func (r *LikeRepository) Matches(ctx context.Context, userID uint64) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN likes l ON l.liked_id = users.id").
		Joins("JOIN likes back ON back.liker_id = l.liked_id AND back.liked_id = l.liker_id").
		Where("l.liker_id = ?", userID).
		Order("l.created_at ASC, l.liked_id ASC").
		Find(&users).Error
	return users, err
}
