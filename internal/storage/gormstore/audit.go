package gormstore

import (
	"context"

	"spendbook/internal/models"
)

// CreateAuditLog implements storage.AuditStore.
func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return translate(s.conn(ctx).Create(entry).Error)
}
