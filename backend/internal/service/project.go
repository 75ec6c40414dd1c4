package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/plankhq/plank/backend/internal/utils"
	"github.com/plankhq/plank/shared/config"
	"github.com/plankhq/plank/shared/domain"
	"github.com/plankhq/plank/shared/errors"
	"github.com/plankhq/plank/shared/logger"
)

type ProjectService interface {
	Create(data domain.ProjectCreationData) (domain.Project, error)
	ProjectsByUser(userId domain.UserId) ([]domain.Project, error)
	Update(projectId domain.ProjectId, name, description string) error
	Delete(projectId domain.ProjectId, requester domain.UserId) error
	Members(projectId domain.ProjectId) ([]domain.Member, error)
	ChangeRole(projectId domain.ProjectId, requester, target domain.UserId, role domain.Role) error
	CreateInvite(projectId domain.ProjectId, inviterEmail domain.Email) (domain.InviteToken, string, error)
	AcceptInvite(token string, userId domain.UserId) (domain.Project, error)
}

type ProjectStorage interface {
	CreateProject(data domain.ProjectCreationData, ownerId domain.UserId) (domain.Project, error)
	Project(id domain.ProjectId) (domain.Project, error)
	ProjectsByUser(userId domain.UserId) ([]domain.Project, error)
	UpdateProject(id domain.ProjectId, name, description string) error
	DeleteProject(id domain.ProjectId) error
	Members(projectId domain.ProjectId) ([]domain.Member, error)
	MemberRole(projectId domain.ProjectId, userId domain.UserId) (domain.Role, error)
	AddMember(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error
	ChangeRole(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error
	RemoveMember(projectId domain.ProjectId, userId domain.UserId) error
	SaveInvite(invite domain.InviteToken) error
	ConsumeInvite(token string) (domain.InviteToken, error)
	User(email domain.Email) (domain.User, error)
}

type Project struct {
	storage ProjectStorage
	cfg     *config.Public
}

func NewProject(storage ProjectStorage, cfg *config.Public) *Project {
	return &Project{storage: storage, cfg: cfg}
}

// Create resolves the owner by email and creates the project atomically:
// project row, owner membership and three seed columns.
func (p *Project) Create(data domain.ProjectCreationData) (domain.Project, error) {
	owner, err := p.storage.User(strings.ToLower(data.OwnerEmail))
	if err != nil {
		return domain.Project{}, err
	}

	data.Name = utils.SanitizeText(data.Name)
	data.Description = utils.SanitizeText(data.Description)
	if data.Name == "" {
		return domain.Project{}, errors.MissingField("Project name is required")
	}

	return p.storage.CreateProject(data, owner.Id)
}

func (p *Project) ProjectsByUser(userId domain.UserId) ([]domain.Project, error) {
	return p.storage.ProjectsByUser(userId)
}

func (p *Project) Update(projectId domain.ProjectId, name, description string) error {
	name = utils.SanitizeText(name)
	if name == "" {
		return errors.MissingField("Project name is required")
	}
	return p.storage.UpdateProject(projectId, name, utils.SanitizeText(description))
}

// Delete removes the whole project when the requester owns it; a plain
// member just leaves.
func (p *Project) Delete(projectId domain.ProjectId, requester domain.UserId) error {
	role, err := p.storage.MemberRole(projectId, requester)
	if err != nil {
		return err
	}
	if role == domain.RoleOwner {
		return p.storage.DeleteProject(projectId)
	}
	return p.storage.RemoveMember(projectId, requester)
}

func (p *Project) Members(projectId domain.ProjectId) ([]domain.Member, error) {
	// Absent projects surface as 404, not an empty member list
	if _, err := p.storage.Project(projectId); err != nil {
		return nil, err
	}
	return p.storage.Members(projectId)
}

// ChangeRole lets an owner promote or demote another member.
func (p *Project) ChangeRole(projectId domain.ProjectId, requester, target domain.UserId, role domain.Role) error {
	requesterRole, err := p.storage.MemberRole(projectId, requester)
	if err != nil {
		return err
	}
	if requesterRole != domain.RoleOwner {
		return &errors.ErrorWithStatusCode{Message: "Only owners can change roles", StatusCode: http.StatusForbidden}
	}
	if requester == target {
		return &errors.ErrorWithStatusCode{Message: "Owners can't change their own role", StatusCode: http.StatusBadRequest}
	}
	return p.storage.ChangeRole(projectId, target, role)
}

// CreateInvite persists a uuid invite token and returns it with the
// shareable URL.
func (p *Project) CreateInvite(projectId domain.ProjectId, inviterEmail domain.Email) (domain.InviteToken, string, error) {
	invite := domain.InviteToken{
		Token:        uuid.NewString(),
		ProjectId:    projectId,
		InviterEmail: strings.ToLower(inviterEmail),
	}
	if err := p.storage.SaveInvite(invite); err != nil {
		return domain.InviteToken{}, "", err
	}

	inviteUrl := fmt.Sprintf("%s/invite/%s", strings.TrimRight(p.cfg.BaseUrl, "/"), invite.Token)
	return invite, inviteUrl, nil
}

// AcceptInvite consumes a single-use token and adds the user as a member.
// A user who already belongs to the project gets a conflict, but the
// token is spent either way.
func (p *Project) AcceptInvite(token string, userId domain.UserId) (domain.Project, error) {
	invite, err := p.storage.ConsumeInvite(token)
	if err != nil {
		return domain.Project{}, err
	}

	if err := p.storage.AddMember(invite.ProjectId, userId, domain.RoleMember); err != nil {
		logger.Log.Warn("invite consumed but membership insert failed",
			"project_id", invite.ProjectId,
			"user_id", userId,
			"error", err)
		return domain.Project{}, err
	}

	return p.storage.Project(invite.ProjectId)
}
