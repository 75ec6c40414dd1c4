package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
	mw "github.com/plankhq/plank/shared/middleware"
	"github.com/plankhq/plank/shared/utils"
)

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var body api.CreateProjectRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	project, err := h.project.Create(domain.ProjectCreationData{
		Name:        body.Name,
		Description: body.Description,
		OwnerEmail:  user.Email,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, api.ProjectResponse{Project: project}, http.StatusCreated)
}

func (h *Handler) GetProjects(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	projects, err := h.project.ProjectsByUser(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.ProjectListResponse{Projects: projects})
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.UpdateProjectRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.project.Update(projectId, body.Name, body.Description); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteProject deletes the whole project for an owner; a plain member
// just leaves it.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.project.Delete(projectId, user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	members, err := h.project.Members(projectId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.MemberListResponse{Members: members})
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	targetId, err := parseIdParam(r, "userId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.ChangeRoleRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.project.ChangeRole(projectId, user.Id, targetId, body.Role); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	invite, inviteUrl, err := h.project.CreateInvite(projectId, user.Email)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, api.InviteResponse{InviteUrl: inviteUrl, Token: invite.Token}, http.StatusCreated)
}

// AcceptInvite consumes a single-use invite token and joins the caller to
// the project. The token is spent even when the caller was already a
// member.
func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "Missing invite token", http.StatusBadRequest)
		return
	}

	project, err := h.project.AcceptInvite(token, user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.AcceptInviteResponse{ProjectId: project.Id})
}
