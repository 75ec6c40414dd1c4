package api

import "github.com/plankhq/plank/shared/domain"

// Request DTOs

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner member"`
}

type WriteLogRequest struct {
	LogType string `json:"log_type" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Response DTOs

type ProjectResponse struct {
	domain.Project
}

type ProjectListResponse struct {
	Projects []domain.Project `json:"projects"`
}

type MemberListResponse struct {
	Members []domain.Member `json:"members"`
}

type InviteResponse struct {
	InviteUrl string `json:"invite_url"`
	Token     string `json:"token"`
}

type AcceptInviteResponse struct {
	ProjectId int64 `json:"project_id"`
}

type ActivityLogResponse struct {
	Logs []domain.ActivityLog `json:"logs"`
}

type ActivityLogEntryResponse struct {
	domain.ActivityLog
}
