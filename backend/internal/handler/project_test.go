package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/config"
	"github.com/plankhq/plank/shared/domain"
	internal_errors "github.com/plankhq/plank/shared/errors"
)

func projectRouter(h *Handler) chi.Router {
	router := chi.NewRouter()
	router.Post("/v1/projects", h.CreateProject)
	router.Get("/v1/projects", h.GetProjects)
	router.Put("/v1/projects/{projectId}", h.UpdateProject)
	router.Delete("/v1/projects/{projectId}", h.DeleteProject)
	router.Get("/v1/projects/{projectId}/members", h.GetMembers)
	router.Put("/v1/projects/{projectId}/members/{userId}/role", h.ChangeRole)
	router.Post("/v1/projects/{projectId}/invites", h.CreateInvite)
	router.Post("/v1/invites/{token}/accept", h.AcceptInvite)
	return router
}

func TestCreateProjectHandler(t *testing.T) {
	h := &Handler{cfg: &config.Public{}}
	router := projectRouter(h)

	body := []byte(`{"name": "Roadmap", "description": "Q4 plan"}`)

	t.Run("successful request", func(t *testing.T) {
		h.project = &MockProjectService{
			MockCreate: func(data domain.ProjectCreationData) (domain.Project, error) {
				assert.Equal(t, "alice@example.com", data.OwnerEmail, "owner comes from context, not body")
				return domain.Project{Id: 7, Name: data.Name}, nil
			},
		}
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBuffer(body)), testUser)

		rr := do(router, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp api.ProjectResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, int64(7), resp.Id)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h.project = &MockProjectService{}
		req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBuffer(body))

		rr := do(router, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		h.project = &MockProjectService{}
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBuffer([]byte(`{"description": "x"}`))), testUser)

		rr := do(router, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteProjectHandler(t *testing.T) {
	h := &Handler{cfg: &config.Public{}}
	router := projectRouter(h)

	t.Run("passes requester", func(t *testing.T) {
		var gotRequester domain.UserId
		h.project = &MockProjectService{
			MockDelete: func(projectId domain.ProjectId, requester domain.UserId) error {
				assert.Equal(t, domain.ProjectId(7), projectId)
				gotRequester = requester
				return nil
			},
		}
		req := authedRequest(httptest.NewRequest(http.MethodDelete, "/v1/projects/7", nil), testUser)

		rr := do(router, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, testUser.Id, gotRequester)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		h.project = &MockProjectService{}
		req := authedRequest(httptest.NewRequest(http.MethodDelete, "/v1/projects/abc", nil), testUser)

		rr := do(router, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetMembersHandler(t *testing.T) {
	h := &Handler{cfg: &config.Public{}}
	router := projectRouter(h)

	t.Run("returns members", func(t *testing.T) {
		h.project = &MockProjectService{
			MockMembers: func(projectId domain.ProjectId) ([]domain.Member, error) {
				return []domain.Member{
					{UserId: 1, Username: "alice", Role: domain.RoleOwner},
					{UserId: 2, Username: "bob", Role: domain.RoleMember},
				}, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/projects/7/members", nil)

		rr := do(router, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp api.MemberListResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.Len(t, resp.Members, 2)
		assert.Equal(t, "alice", resp.Members[0].Username)
	})

	t.Run("absent project", func(t *testing.T) {
		h.project = &MockProjectService{
			MockMembers: func(projectId domain.ProjectId) ([]domain.Member, error) {
				return nil, internal_errors.NotFound("Project not found")
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/projects/99/members", nil)

		rr := do(router, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChangeRoleHandler(t *testing.T) {
	h := &Handler{cfg: &config.Public{}}
	router := projectRouter(h)

	t.Run("successful request", func(t *testing.T) {
		h.project = &MockProjectService{
			MockChangeRole: func(projectId domain.ProjectId, requester, target domain.UserId, role domain.Role) error {
				assert.Equal(t, testUser.Id, requester)
				assert.Equal(t, domain.UserId(2), target)
				assert.Equal(t, domain.RoleOwner, role)
				return nil
			},
		}
		req := authedRequest(httptest.NewRequest(http.MethodPut, "/v1/projects/7/members/2/role", bytes.NewBuffer([]byte(`{"role": "owner"}`))), testUser)

		rr := do(router, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("bogus role rejected", func(t *testing.T) {
		h.project = &MockProjectService{}
		req := authedRequest(httptest.NewRequest(http.MethodPut, "/v1/projects/7/members/2/role", bytes.NewBuffer([]byte(`{"role": "superadmin"}`))), testUser)

		rr := do(router, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		h.project = &MockProjectService{
			MockChangeRole: func(projectId domain.ProjectId, requester, target domain.UserId, role domain.Role) error {
				return &internal_errors.ErrorWithStatusCode{Message: "Only owners can change roles", StatusCode: http.StatusForbidden}
			},
		}
		req := authedRequest(httptest.NewRequest(http.MethodPut, "/v1/projects/7/members/2/role", bytes.NewBuffer([]byte(`{"role": "member"}`))), testUser)

		rr := do(router, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestInviteHandlers(t *testing.T) {
	h := &Handler{cfg: &config.Public{}}
	router := projectRouter(h)

	t.Run("create returns url", func(t *testing.T) {
		h.project = &MockProjectService{
			MockCreateInvite: func(projectId domain.ProjectId, inviterEmail domain.Email) (domain.InviteToken, string, error) {
				assert.Equal(t, "alice@example.com", inviterEmail)
				return domain.InviteToken{Token: "tok", ProjectId: projectId}, "https://plank.example.com/invite/tok", nil
			},
		}
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/projects/7/invites", nil), testUser)

		rr := do(router, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp api.InviteResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "https://plank.example.com/invite/tok", resp.InviteUrl)
		assert.Equal(t, "tok", resp.Token)
	})

	t.Run("accept joins project", func(t *testing.T) {
		h.project = &MockProjectService{
			MockAcceptInvite: func(token string, userId domain.UserId) (domain.Project, error) {
				assert.Equal(t, "tok", token)
				assert.Equal(t, testUser.Id, userId)
				return domain.Project{Id: 7}, nil
			},
		}
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/invites/tok/accept", nil), testUser)

		rr := do(router, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp api.AcceptInviteResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, int64(7), resp.ProjectId)
	})

	t.Run("accept used token", func(t *testing.T) {
		h.project = &MockProjectService{
			MockAcceptInvite: func(token string, userId domain.UserId) (domain.Project, error) {
				return domain.Project{}, &internal_errors.ErrorWithStatusCode{Message: "Invite already used", StatusCode: http.StatusConflict}
			},
		}
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/invites/tok/accept", nil), testUser)

		rr := do(router, req)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}
