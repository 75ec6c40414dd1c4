package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/plankhq/plank/shared/domain"
	internal_errors "github.com/plankhq/plank/shared/errors"
)

var seedColumnTitles = []string{"To Do", "In Progress", "Done"}

// =========================================================================
// Public Methods (satisfy the service.ProjectStorage interface)
// =========================================================================

// CreateProject inserts the project, the owner membership and the three
// seed columns in a single transaction: either all of it lands or none.
func (s *Storage) CreateProject(data domain.ProjectCreationData, ownerId domain.UserId) (domain.Project, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var project domain.Project
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		project, err = s.createProject(tx, data, ownerId)
		return err
	})
	return project, err
}

// Project fetches a single project by id.
func (s *Storage) Project(id domain.ProjectId) (domain.Project, error) {
	return s.project(s.db, id)
}

// ProjectsByUser lists every project the user is a member of.
func (s *Storage) ProjectsByUser(userId domain.UserId) ([]domain.Project, error) {
	return s.projectsByUser(s.db, userId)
}

// UpdateProject changes the project name and description.
func (s *Storage) UpdateProject(id domain.ProjectId, name, description string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateProject(tx, id, name, description)
	})
}

// DeleteProject removes the project; memberships, columns, chat and logs
// go with it via cascade.
func (s *Storage) DeleteProject(id domain.ProjectId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteProject(tx, id)
	})
}

// Members lists project memberships joined with user display fields.
func (s *Storage) Members(projectId domain.ProjectId) ([]domain.Member, error) {
	return s.members(s.db, projectId)
}

// IsMember reports whether the user belongs to the project.
// Satisfies middleware.MembershipChecker.
func (s *Storage) IsMember(projectId domain.ProjectId, userId domain.UserId) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)",
		projectId, userId).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// MemberRole returns the user's role within the project.
func (s *Storage) MemberRole(projectId domain.ProjectId, userId domain.UserId) (domain.Role, error) {
	var role domain.Role
	err := s.db.QueryRow("SELECT role FROM project_members WHERE project_id = $1 AND user_id = $2",
		projectId, userId).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &internal_errors.ErrorWithStatusCode{Message: "Not a project member", StatusCode: http.StatusNotFound}
		}
		return "", fmt.Errorf("failed to query member role: %w", err)
	}
	return role, nil
}

// AddMember inserts a membership row. Duplicate memberships are rejected
// with a conflict error.
func (s *Storage) AddMember(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.addMember(tx, projectId, userId, role)
	})
}

// ChangeRole updates a member's role within the project.
func (s *Storage) ChangeRole(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.changeRole(tx, projectId, userId, role)
	})
}

// RemoveMember deletes a membership row (member leaving a project).
func (s *Storage) RemoveMember(projectId domain.ProjectId, userId domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.removeMember(tx, projectId, userId)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) createProject(tx *sql.Tx, data domain.ProjectCreationData, ownerId domain.UserId) (domain.Project, error) {
	var project domain.Project
	err := tx.QueryRow("INSERT INTO projects(name, description, created_by) VALUES($1, $2, $3) RETURNING id, name, description, created_by",
		data.Name, data.Description, ownerId).
		Scan(&project.Id, &project.Name, &project.Description, &project.CreatedBy)
	if err != nil {
		return domain.Project{}, fmt.Errorf("failed to insert project: %w", err)
	}

	if err := s.addMember(tx, project.Id, ownerId, domain.RoleOwner); err != nil {
		return domain.Project{}, err
	}

	for _, title := range seedColumnTitles {
		if _, err := s.createColumn(tx, project.Id, title); err != nil {
			return domain.Project{}, err
		}
	}

	return project, nil
}

func (s *Storage) project(q Querier, id domain.ProjectId) (domain.Project, error) {
	var project domain.Project
	err := q.QueryRow("SELECT id, name, description, created_by FROM projects WHERE id = $1", id).
		Scan(&project.Id, &project.Name, &project.Description, &project.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, &internal_errors.ErrorWithStatusCode{Message: "Project not found", StatusCode: http.StatusNotFound}
		}
		return domain.Project{}, fmt.Errorf("failed to query project: %w", err)
	}
	return project, nil
}

func (s *Storage) projectsByUser(q Querier, userId domain.UserId) ([]domain.Project, error) {
	rows, err := q.Query(`
        SELECT p.id, p.name, p.description, p.created_by
        FROM projects p
        JOIN project_members pm ON pm.project_id = p.id
        WHERE pm.user_id = $1
        ORDER BY p.id`,
		userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query user projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.Id, &p.Name, &p.Description, &p.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Storage) updateProject(q Querier, id domain.ProjectId, name, description string) error {
	result, err := q.Exec("UPDATE projects SET name = $1, description = $2 WHERE id = $3", name, description, id)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for project update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Project not found for update", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) deleteProject(q Querier, id domain.ProjectId) error {
	result, err := q.Exec("DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for project deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Project not found for deletion", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) members(q Querier, projectId domain.ProjectId) ([]domain.Member, error) {
	rows, err := q.Query(`
        SELECT pm.user_id, u.username, pm.role
        FROM project_members pm
        JOIN users u ON u.id = pm.user_id
        WHERE pm.project_id = $1
        ORDER BY pm.role, u.username`,
		projectId)
	if err != nil {
		return nil, fmt.Errorf("failed to query project members: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.UserId, &m.Username, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Storage) addMember(q Querier, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	result, err := q.Exec(`
        INSERT INTO project_members(project_id, user_id, role)
        VALUES($1, $2, $3)
        ON CONFLICT (project_id, user_id) DO NOTHING`,
		projectId, userId, role)
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for membership insert: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Already a project member", StatusCode: http.StatusConflict}
	}
	return nil
}

func (s *Storage) changeRole(q Querier, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	result, err := q.Exec("UPDATE project_members SET role = $1 WHERE project_id = $2 AND user_id = $3",
		role, projectId, userId)
	if err != nil {
		return fmt.Errorf("failed to change member role: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for role change: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Member not found for role change", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) removeMember(q Querier, projectId domain.ProjectId, userId domain.UserId) error {
	result, err := q.Exec("DELETE FROM project_members WHERE project_id = $1 AND user_id = $2", projectId, userId)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for member removal: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Member not found for removal", StatusCode: http.StatusNotFound}
	}
	return nil
}
