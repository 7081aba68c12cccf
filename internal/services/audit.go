package services

import (
	"fmt"

	"bulkcat/internal/models"

	log "github.com/sirupsen/logrus"
)

// AuditLogger appends one summary line per bulk move batch.
type AuditLogger struct {
	logger log.FieldLogger
}

func NewAuditLogger(logger log.FieldLogger) *AuditLogger {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &AuditLogger{logger: logger}
}

func (a *AuditLogger) RecordBulkMove(actor *models.User, result *BulkMoveResult) {
	login, actorID := "unknown", int64(0)
	if actor != nil {
		login, actorID = actor.Login, actor.ID
	}
	targetName, targetID := "Unknown", int64(0)
	if result.Target != nil {
		targetName, targetID = result.Target.Name, result.Target.ID
	}

	a.logger.WithFields(log.Fields{
		"component":   "audit",
		"batch_id":    result.BatchID,
		"actor_id":    actorID,
		"actor_login": login,
		"succeeded":   result.Succeeded,
		"failed":      result.Failed,
		"category_id": targetID,
	}).Info(fmt.Sprintf("[Bulk Move] User %s (ID: %d) performed bulk move: %d succeeded, %d failed, target category: %s (ID: %d)",
		login, actorID, result.Succeeded, result.Failed, targetName, targetID))
}
