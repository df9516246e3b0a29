package repository

import (
	"context"

	"github.com/oggyb/muzz-web/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository provides data access methods for the append-only Message log.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create appends msg. CreatedAt is stamped by gorm.
func (r *MessageRepository) Create(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(msg).Error
}

// Between returns the full thread between a and b in both directions.
//
// Behavior:
//   - (sender=a, recipient=b) OR (sender=b, recipient=a).
//   - Ordered by created_at ASC; id breaks ties so insertion order wins.
//   - Sender is preloaded for display.
func (r *MessageRepository) Between(ctx context.Context, a, b uint64) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// PartnerIDs returns the distinct ids userID has exchanged a message with,
// counting both sent and received messages.
func (r *MessageRepository) PartnerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Raw(`
		SELECT recipient_id AS partner_id FROM messages WHERE sender_id = ?
		UNION
		SELECT sender_id AS partner_id FROM messages WHERE recipient_id = ?
		ORDER BY partner_id`, userID, userID).
		Scan(&ids).Error
	return ids, err
}
