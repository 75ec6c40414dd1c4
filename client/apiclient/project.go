package apiclient

import (
	"fmt"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
)

// === Project Methods ===

func (c *APIClient) CreateProject(name, description string) (domain.Project, error) {
	var response api.ProjectResponse
	err := c.doJSON("POST", "/v1/projects", api.CreateProjectRequest{Name: name, Description: description}, &response)
	return response.Project, err
}

func (c *APIClient) GetProjects() ([]domain.Project, error) {
	var response api.ProjectListResponse
	if err := c.doJSON("GET", "/v1/projects", nil, &response); err != nil {
		return nil, err
	}
	return response.Projects, nil
}

func (c *APIClient) UpdateProject(projectId int64, name, description string) error {
	return c.doJSON("PUT", fmt.Sprintf("/v1/projects/%d", projectId), api.UpdateProjectRequest{Name: name, Description: description}, nil)
}

// DeleteProject deletes the project when the caller owns it; a plain
// member leaves it instead.
func (c *APIClient) DeleteProject(projectId int64) error {
	return c.doJSON("DELETE", fmt.Sprintf("/v1/projects/%d", projectId), nil, nil)
}

func (c *APIClient) GetMembers(projectId int64) ([]domain.Member, error) {
	var response api.MemberListResponse
	if err := c.doJSON("GET", fmt.Sprintf("/v1/projects/%d/members", projectId), nil, &response); err != nil {
		return nil, err
	}
	return response.Members, nil
}

func (c *APIClient) ChangeRole(projectId, userId int64, role string) error {
	return c.doJSON("PUT", fmt.Sprintf("/v1/projects/%d/members/%d/role", projectId, userId), api.ChangeRoleRequest{Role: role}, nil)
}

func (c *APIClient) CreateInvite(projectId int64) (api.InviteResponse, error) {
	var response api.InviteResponse
	err := c.doJSON("POST", fmt.Sprintf("/v1/projects/%d/invites", projectId), nil, &response)
	return response, err
}

func (c *APIClient) AcceptInvite(token string) (int64, error) {
	var response api.AcceptInviteResponse
	if err := c.doJSON("POST", fmt.Sprintf("/v1/invites/%s/accept", token), nil, &response); err != nil {
		return 0, err
	}
	return response.ProjectId, nil
}

// === Activity Log Methods ===

func (c *APIClient) WriteActivityLog(projectId int64, logType, content string) (domain.ActivityLog, error) {
	var response api.ActivityLogEntryResponse
	err := c.doJSON("POST", fmt.Sprintf("/v1/projects/%d/logs", projectId), api.WriteLogRequest{LogType: logType, Content: content}, &response)
	return response.ActivityLog, err
}

func (c *APIClient) GetActivityLogs(projectId int64) ([]domain.ActivityLog, error) {
	var response api.ActivityLogResponse
	if err := c.doJSON("GET", fmt.Sprintf("/v1/projects/%d/logs", projectId), nil, &response); err != nil {
		return nil, err
	}
	return response.Logs, nil
}
