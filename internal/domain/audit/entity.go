// internal/domain/audit/entity.go
package audit

import (
	"time"
)

// Well-known audit actions
const (
	ActionSaleCompleted     = "SALE_COMPLETED"
	ActionPublicLinkCreated = "PUBLIC_INVOICE_LINK_CREATED"
	ActionUserApproved      = "USER_APPROVED"
)

// Log represents a single audit trail entry. Details holds a JSON document
// describing the action.
type Log struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"not null;size:64;index" json:"action"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Username  string    `gorm:"size:50" json:"username"`
	Details   string    `gorm:"type:text" json:"details"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name for Log
func (Log) TableName() string {
	return "audit_logs"
}
