package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectionStatus defines the state of a relationship edge
type ConnectionStatus string

const (
	// ConnectionPending means a request has been sent but not yet answered
	ConnectionPending ConnectionStatus = "pending"

	// ConnectionAccepted means both sides are connected
	ConnectionAccepted ConnectionStatus = "accepted"
)

// Connection is one edge of the relationship graph, keyed by
// (requester, addressee). Keeping the whole request/accept protocol in a
// single row means accepting a request is one status flip instead of four
// separate set mutations, which is what makes the protocol atomic.
type Connection struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID        `json:"requester_id" gorm:"type:uuid;not null;uniqueIndex:idx_requester_addressee;index"`
	AddresseeID uuid.UUID        `json:"addressee_id" gorm:"type:uuid;not null;uniqueIndex:idx_requester_addressee;index"`
	Status      ConnectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	Requester User `json:"-" gorm:"foreignKey:RequesterID"`
	Addressee User `json:"-" gorm:"foreignKey:AddresseeID"`
}

// BeforeCreate assigns the ID in Go so the model works on every dialect
func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Involves reports whether userID is on either side of the edge
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.RequesterID == userID || c.AddresseeID == userID
}

// PartnerOf returns the other side of the edge for userID
func (c *Connection) PartnerOf(userID uuid.UUID) uuid.UUID {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}
