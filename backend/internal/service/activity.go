package service

import (
	"github.com/plankhq/plank/backend/internal/utils"
	"github.com/plankhq/plank/shared/domain"
	"github.com/plankhq/plank/shared/errors"
)

type ActivityService interface {
	Write(log domain.ActivityLog) (domain.ActivityLog, error)
	Logs(projectId domain.ProjectId) ([]domain.ActivityLog, error)
}

type ActivityStorage interface {
	WriteActivityLog(log domain.ActivityLog) (domain.ActivityLog, error)
	ActivityLogs(projectId domain.ProjectId) ([]domain.ActivityLog, error)
}

type Activity struct {
	storage ActivityStorage
}

func NewActivity(storage ActivityStorage) *Activity {
	return &Activity{storage: storage}
}

func (a *Activity) Write(log domain.ActivityLog) (domain.ActivityLog, error) {
	log.LogType = utils.SanitizeText(log.LogType)
	log.Content = utils.SanitizeText(log.Content)
	if log.LogType == "" || log.Content == "" {
		return domain.ActivityLog{}, errors.MissingField("Log type and content are required")
	}
	return a.storage.WriteActivityLog(log)
}

func (a *Activity) Logs(projectId domain.ProjectId) ([]domain.ActivityLog, error) {
	return a.storage.ActivityLogs(projectId)
}
