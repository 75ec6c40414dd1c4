package domain

import "time"

// to iterate thru layers: handler -> service -> storage
type ProjectCreationData struct {
	Name        string
	Description string
	OwnerEmail  Email
}

type Project struct {
	Id          ProjectId
	Name        string
	Description string
	CreatedBy   UserId
}

// Member is a project membership row joined with user display fields.
type Member struct {
	UserId   UserId
	Username string
	Role     Role
}

type InviteToken struct {
	Token        string
	ProjectId    ProjectId
	InviterEmail Email
	Used         bool
	CreatedAt    time.Time
}

// ActivityLog is an append-only audit entry for a project.
type ActivityLog struct {
	Id        int64
	AuthorId  UserId
	LogType   string
	Content   string
	ProjectId ProjectId
	CreatedAt time.Time
}
