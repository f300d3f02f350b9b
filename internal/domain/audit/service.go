// internal/domain/audit/service.go
package audit

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service writes audit trail entries. Recording is best-effort: a failed
// write is logged and swallowed so it can never abort the action being
// audited.
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new audit service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Record writes an audit entry for the given action
func (s *Service) Record(action string, userID *uint, username string, details map[string]interface{}) {
	if username == "" {
		username = "System"
	}

	payload, err := json.Marshal(details)
	if err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("Failed to encode audit details")
		payload = []byte("{}")
	}

	entry := &Log{
		Action:    action,
		UserID:    userID,
		Username:  username,
		Details:   string(payload),
		Timestamp: time.Now().UTC(),
	}

	if err := s.db.Create(entry).Error; err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("Audit logging failed")
	}
}

// GetLogs returns recent audit entries, newest first
func (s *Service) GetLogs(limit int) ([]Log, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []Log
	if err := s.db.Order("timestamp desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
