package services

import (
	"context"
	"encoding/json"

	"spendbook/internal/logger"
	"spendbook/internal/models"
	"spendbook/internal/storage"
)

// Audit actions.
const (
	AuditDeleteUser          = "delete_user"
	AuditDeleteExpense       = "delete_expense"
	AuditDeleteMemberExpense = "delete_member_expense"
	AuditUpdateBudget        = "update_budget"
	AuditJoinGroup           = "join_group"
)

// auditService handles audit log recording.
type auditService struct {
	store storage.AuditStore
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(store storage.AuditStore) AuditServicer {
	return &auditService{store: store}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, actorID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.store.CreateAuditLog(ctx, entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"actor_id", actorID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
