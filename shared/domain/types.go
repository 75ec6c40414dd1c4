package domain

type (
	Email    = string
	Password = string
	UserId   = int64

	ProjectId = int64
	ColumnId  = int64
	CardId    = int64
	CommentId = int64
	ChatMsgId = int64

	Role = string
)

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)
