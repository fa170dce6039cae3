package repository

import (
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"gorm.io/gorm"
)

// ConnectionRepository handles database operations for the connection graph.
// Each pending or accepted relation is a single row; there is never more
// than one row between the same ordered pair.
type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Create inserts a new pending connection request
func (r *ConnectionRepository) Create(conn *model.Connection) error {
	return r.db.Create(conn).Error
}

// FindBetween finds the relation row between two users in either direction
func (r *ConnectionRepository) FindBetween(userA, userB uuid.UUID) (*model.Connection, error) {
	var conn model.Connection
	err := r.db.
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userA, userB, userB, userA).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// FindPending finds a pending request from requester to addressee
func (r *ConnectionRepository) FindPending(requesterID, addresseeID uuid.UUID) (*model.Connection, error) {
	var conn model.Connection
	err := r.db.
		Where("requester_id = ? AND addressee_id = ? AND status = ?",
			requesterID, addresseeID, model.ConnectionPending).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// Accept flips a pending request to accepted inside a transaction, so the
// disappearance from both request lists and the appearance in both
// connection lists happen atomically.
func (r *ConnectionRepository) Accept(connectionID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Connection{}).
			Where("id = ? AND status = ?", connectionID, model.ConnectionPending).
			Update("status", model.ConnectionAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Delete removes a relation row (decline, cancel or disconnect)
func (r *ConnectionRepository) Delete(connectionID uuid.UUID) error {
	return r.db.Where("id = ?", connectionID).Delete(&model.Connection{}).Error
}

// IncomingRequests returns pending requests addressed to userID, with the
// requester preloaded
func (r *ConnectionRepository) IncomingRequests(userID uuid.UUID) ([]model.Connection, error) {
	var conns []model.Connection
	err := r.db.
		Where("addressee_id = ? AND status = ?", userID, model.ConnectionPending).
		Preload("Requester").
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

// SentRequests returns pending requests userID has sent, with the
// addressee preloaded
func (r *ConnectionRepository) SentRequests(userID uuid.UUID) ([]model.Connection, error) {
	var conns []model.Connection
	err := r.db.
		Where("requester_id = ? AND status = ?", userID, model.ConnectionPending).
		Preload("Addressee").
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

// Connections returns accepted relations involving userID, both directions,
// with both users preloaded
func (r *ConnectionRepository) Connections(userID uuid.UUID) ([]model.Connection, error) {
	var conns []model.Connection
	err := r.db.
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
			userID, userID, model.ConnectionAccepted).
		Preload("Requester").
		Preload("Addressee").
		Order("updated_at DESC").
		Find(&conns).Error
	return conns, err
}

// AreConnected reports whether an accepted relation exists between the two users
func (r *ConnectionRepository) AreConnected(userA, userB uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Connection{}).
		Where("((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)) AND status = ?",
			userA, userB, userB, userA, model.ConnectionAccepted).
		Count(&count).Error
	return count > 0, err
}

// DeleteAllFor removes every relation row involving userID. Used when an
// admin deletes an account so no request or connection dangles.
func (r *ConnectionRepository) DeleteAllFor(tx *gorm.DB, userID uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Delete(&model.Connection{}).Error
}
