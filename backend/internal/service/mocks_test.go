package service

import (
	"net/http"
	"time"

	"github.com/plankhq/plank/shared/domain"
	internal_errors "github.com/plankhq/plank/shared/errors"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks ---

func notFound(message string) *internal_errors.ErrorWithStatusCode {
	return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

type MockAuthStorage struct {
	SaveUserFunc               func(user domain.User) (domain.UserId, error)
	UserFunc                   func(email domain.Email) (domain.User, error)
	MarkVerifiedFunc           func(email domain.Email) error
	UpdatePasswordFunc         func(creds domain.Credentials) error
	SaveConfirmationDataFunc   func(data domain.ConfirmationData) error
	ConfirmationDataFunc       func(email domain.Email) (domain.ConfirmationData, error)
	DeleteConfirmationDataFunc func(email domain.Email) error
	SaveLoginTokenFunc         func(token domain.LoginToken) error
	LoginTokenFunc             func(token string) (domain.LoginToken, error)
	DeleteLoginTokenFunc       func(token string) error
}

func (m *MockAuthStorage) SaveUser(user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(user)
	}
	return 1, nil
}

func (m *MockAuthStorage) User(email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(email)
	}
	// Default: Not found
	return domain.User{}, notFound("User not found")
}

func (m *MockAuthStorage) MarkVerified(email domain.Email) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(email)
	}
	return nil
}

func (m *MockAuthStorage) UpdatePassword(creds domain.Credentials) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(creds)
	}
	return nil
}

func (m *MockAuthStorage) SaveConfirmationData(data domain.ConfirmationData) error {
	if m.SaveConfirmationDataFunc != nil {
		return m.SaveConfirmationDataFunc(data)
	}
	return nil
}

func (m *MockAuthStorage) ConfirmationData(email domain.Email) (domain.ConfirmationData, error) {
	if m.ConfirmationDataFunc != nil {
		return m.ConfirmationDataFunc(email)
	}
	return domain.ConfirmationData{}, notFound("Confirmation data not found")
}

func (m *MockAuthStorage) DeleteConfirmationData(email domain.Email) error {
	if m.DeleteConfirmationDataFunc != nil {
		return m.DeleteConfirmationDataFunc(email)
	}
	return nil
}

func (m *MockAuthStorage) SaveLoginToken(token domain.LoginToken) error {
	if m.SaveLoginTokenFunc != nil {
		return m.SaveLoginTokenFunc(token)
	}
	return nil
}

func (m *MockAuthStorage) LoginToken(token string) (domain.LoginToken, error) {
	if m.LoginTokenFunc != nil {
		return m.LoginTokenFunc(token)
	}
	return domain.LoginToken{}, notFound("Login token not found")
}

func (m *MockAuthStorage) DeleteLoginToken(token string) error {
	if m.DeleteLoginTokenFunc != nil {
		return m.DeleteLoginTokenFunc(token)
	}
	return nil
}

type MockEmail struct {
	SendFunc      func(recipientEmail, subject, body string) error
	IsCorrectFunc func(email domain.Email) error
	Sent          []string // recipients of successful sends
}

func (m *MockEmail) Send(recipientEmail, subject, body string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(recipientEmail, subject, body); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, recipientEmail)
	return nil
}

func (m *MockEmail) IsCorrect(email domain.Email) error {
	if m.IsCorrectFunc != nil {
		return m.IsCorrectFunc(email)
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "token", nil
}

// hashOf is a bcrypt helper for fixtures.
func hashOf(s string) string {
	h, _ := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
	return string(h)
}

type MockProjectStorage struct {
	CreateProjectFunc  func(data domain.ProjectCreationData, ownerId domain.UserId) (domain.Project, error)
	ProjectFunc        func(id domain.ProjectId) (domain.Project, error)
	ProjectsByUserFunc func(userId domain.UserId) ([]domain.Project, error)
	UpdateProjectFunc  func(id domain.ProjectId, name, description string) error
	DeleteProjectFunc  func(id domain.ProjectId) error
	MembersFunc        func(projectId domain.ProjectId) ([]domain.Member, error)
	MemberRoleFunc     func(projectId domain.ProjectId, userId domain.UserId) (domain.Role, error)
	AddMemberFunc      func(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error
	ChangeRoleFunc     func(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error
	RemoveMemberFunc   func(projectId domain.ProjectId, userId domain.UserId) error
	SaveInviteFunc     func(invite domain.InviteToken) error
	ConsumeInviteFunc  func(token string) (domain.InviteToken, error)
	UserFunc           func(email domain.Email) (domain.User, error)
}

func (m *MockProjectStorage) CreateProject(data domain.ProjectCreationData, ownerId domain.UserId) (domain.Project, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(data, ownerId)
	}
	return domain.Project{Id: 1, Name: data.Name, Description: data.Description, CreatedBy: ownerId}, nil
}

func (m *MockProjectStorage) Project(id domain.ProjectId) (domain.Project, error) {
	if m.ProjectFunc != nil {
		return m.ProjectFunc(id)
	}
	return domain.Project{Id: id, Name: "project"}, nil
}

func (m *MockProjectStorage) ProjectsByUser(userId domain.UserId) ([]domain.Project, error) {
	if m.ProjectsByUserFunc != nil {
		return m.ProjectsByUserFunc(userId)
	}
	return []domain.Project{}, nil
}

func (m *MockProjectStorage) UpdateProject(id domain.ProjectId, name, description string) error {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(id, name, description)
	}
	return nil
}

func (m *MockProjectStorage) DeleteProject(id domain.ProjectId) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(id)
	}
	return nil
}

func (m *MockProjectStorage) Members(projectId domain.ProjectId) ([]domain.Member, error) {
	if m.MembersFunc != nil {
		return m.MembersFunc(projectId)
	}
	return []domain.Member{}, nil
}

func (m *MockProjectStorage) MemberRole(projectId domain.ProjectId, userId domain.UserId) (domain.Role, error) {
	if m.MemberRoleFunc != nil {
		return m.MemberRoleFunc(projectId, userId)
	}
	return domain.RoleMember, nil
}

func (m *MockProjectStorage) AddMember(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(projectId, userId, role)
	}
	return nil
}

func (m *MockProjectStorage) ChangeRole(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	if m.ChangeRoleFunc != nil {
		return m.ChangeRoleFunc(projectId, userId, role)
	}
	return nil
}

func (m *MockProjectStorage) RemoveMember(projectId domain.ProjectId, userId domain.UserId) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(projectId, userId)
	}
	return nil
}

func (m *MockProjectStorage) SaveInvite(invite domain.InviteToken) error {
	if m.SaveInviteFunc != nil {
		return m.SaveInviteFunc(invite)
	}
	return nil
}

func (m *MockProjectStorage) ConsumeInvite(token string) (domain.InviteToken, error) {
	if m.ConsumeInviteFunc != nil {
		return m.ConsumeInviteFunc(token)
	}
	return domain.InviteToken{Token: token, ProjectId: 1, Used: true}, nil
}

func (m *MockProjectStorage) User(email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(email)
	}
	return domain.User{Id: 1, Username: "owner", Email: email, IsVerified: true}, nil
}

type MockBoardStorage struct {
	ProjectFunc               func(id domain.ProjectId) (domain.Project, error)
	ColumnsFunc               func(projectId domain.ProjectId) ([]domain.Column, error)
	CreateColumnFunc          func(projectId domain.ProjectId, title string) (domain.Column, error)
	DeleteColumnFunc          func(id domain.ColumnId) error
	CardFunc                  func(id domain.CardId) (domain.Card, error)
	CardsByColumnFunc         func(columnId domain.ColumnId) ([]domain.Card, error)
	CreateCardFunc            func(data domain.CardCreationData) (domain.Card, error)
	DeleteCardFunc            func(id domain.CardId) error
	DeleteCardsByColumnFunc   func(columnId domain.ColumnId) (int64, error)
	MoveCardFunc              func(id domain.CardId, columnId domain.ColumnId) error
	UpdateCardTitleFunc       func(id domain.CardId, title string) error
	UpdateCardDescriptionFunc func(id domain.CardId, description string) error
	SetCardDatesFunc          func(id domain.CardId, start, end *time.Time) error
	SetCardAssigneeFunc       func(id domain.CardId, assignee *domain.UserId) error
	CardDetailFunc            func(id domain.CardId) (domain.CardDetail, error)
	UserByIdFunc              func(id domain.UserId) (domain.User, error)
}

func (m *MockBoardStorage) Project(id domain.ProjectId) (domain.Project, error) {
	if m.ProjectFunc != nil {
		return m.ProjectFunc(id)
	}
	return domain.Project{Id: id, Name: "project"}, nil
}

func (m *MockBoardStorage) Columns(projectId domain.ProjectId) ([]domain.Column, error) {
	if m.ColumnsFunc != nil {
		return m.ColumnsFunc(projectId)
	}
	return []domain.Column{}, nil
}

func (m *MockBoardStorage) CreateColumn(projectId domain.ProjectId, title string) (domain.Column, error) {
	if m.CreateColumnFunc != nil {
		return m.CreateColumnFunc(projectId, title)
	}
	return domain.Column{Id: 1, Title: title, ProjectId: projectId}, nil
}

func (m *MockBoardStorage) DeleteColumn(id domain.ColumnId) error {
	if m.DeleteColumnFunc != nil {
		return m.DeleteColumnFunc(id)
	}
	return nil
}

func (m *MockBoardStorage) Card(id domain.CardId) (domain.Card, error) {
	if m.CardFunc != nil {
		return m.CardFunc(id)
	}
	return domain.Card{Id: id, Title: "card", ColumnId: 1}, nil
}

func (m *MockBoardStorage) CardsByColumn(columnId domain.ColumnId) ([]domain.Card, error) {
	if m.CardsByColumnFunc != nil {
		return m.CardsByColumnFunc(columnId)
	}
	return []domain.Card{}, nil
}

func (m *MockBoardStorage) CreateCard(data domain.CardCreationData) (domain.Card, error) {
	if m.CreateCardFunc != nil {
		return m.CreateCardFunc(data)
	}
	return domain.Card{Id: 1, Title: data.Title, ColumnId: data.ColumnId}, nil
}

func (m *MockBoardStorage) DeleteCard(id domain.CardId) error {
	if m.DeleteCardFunc != nil {
		return m.DeleteCardFunc(id)
	}
	return nil
}

func (m *MockBoardStorage) DeleteCardsByColumn(columnId domain.ColumnId) (int64, error) {
	if m.DeleteCardsByColumnFunc != nil {
		return m.DeleteCardsByColumnFunc(columnId)
	}
	return 0, nil
}

func (m *MockBoardStorage) MoveCard(id domain.CardId, columnId domain.ColumnId) error {
	if m.MoveCardFunc != nil {
		return m.MoveCardFunc(id, columnId)
	}
	return nil
}

func (m *MockBoardStorage) UpdateCardTitle(id domain.CardId, title string) error {
	if m.UpdateCardTitleFunc != nil {
		return m.UpdateCardTitleFunc(id, title)
	}
	return nil
}

func (m *MockBoardStorage) UpdateCardDescription(id domain.CardId, description string) error {
	if m.UpdateCardDescriptionFunc != nil {
		return m.UpdateCardDescriptionFunc(id, description)
	}
	return nil
}

func (m *MockBoardStorage) SetCardDates(id domain.CardId, start, end *time.Time) error {
	if m.SetCardDatesFunc != nil {
		return m.SetCardDatesFunc(id, start, end)
	}
	return nil
}

func (m *MockBoardStorage) SetCardAssignee(id domain.CardId, assignee *domain.UserId) error {
	if m.SetCardAssigneeFunc != nil {
		return m.SetCardAssigneeFunc(id, assignee)
	}
	return nil
}

func (m *MockBoardStorage) CardDetail(id domain.CardId) (domain.CardDetail, error) {
	if m.CardDetailFunc != nil {
		return m.CardDetailFunc(id)
	}
	return domain.CardDetail{}, nil
}

func (m *MockBoardStorage) UserById(id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.User{Id: id, Username: "assignee", Email: "assignee@example.com"}, nil
}

type MockCommentStorage struct {
	CreateCommentFunc  func(data domain.CommentCreationData, authorId domain.UserId) (domain.Comment, error)
	CommentsByCardFunc func(cardId domain.CardId) ([]domain.Comment, error)
	UpdateCommentFunc  func(id domain.CommentId, content string) error
	DeleteCommentFunc  func(id domain.CommentId) error
	UserFunc           func(email domain.Email) (domain.User, error)
}

func (m *MockCommentStorage) CreateComment(data domain.CommentCreationData, authorId domain.UserId) (domain.Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(data, authorId)
	}
	return domain.Comment{Id: 1, Content: data.Content, CardId: data.CardId, AuthorId: authorId}, nil
}

func (m *MockCommentStorage) CommentsByCard(cardId domain.CardId) ([]domain.Comment, error) {
	if m.CommentsByCardFunc != nil {
		return m.CommentsByCardFunc(cardId)
	}
	return []domain.Comment{}, nil
}

func (m *MockCommentStorage) UpdateComment(id domain.CommentId, content string) error {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(id, content)
	}
	return nil
}

func (m *MockCommentStorage) DeleteComment(id domain.CommentId) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(id)
	}
	return nil
}

func (m *MockCommentStorage) User(email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(email)
	}
	return domain.User{Id: 1, Username: "author", Email: email}, nil
}

type MockChatStorage struct {
	SaveChatMessageFunc func(projectId domain.ProjectId, userId domain.UserId, content string) (domain.ChatMessage, error)
	ChatMessagesFunc    func(projectId domain.ProjectId) ([]domain.ChatMessage, error)
	UserFunc            func(email domain.Email) (domain.User, error)
}

func (m *MockChatStorage) SaveChatMessage(projectId domain.ProjectId, userId domain.UserId, content string) (domain.ChatMessage, error) {
	if m.SaveChatMessageFunc != nil {
		return m.SaveChatMessageFunc(projectId, userId, content)
	}
	return domain.ChatMessage{Id: 1, Content: content, ProjectId: projectId, UserId: userId, Sender: "sender"}, nil
}

func (m *MockChatStorage) ChatMessages(projectId domain.ProjectId) ([]domain.ChatMessage, error) {
	if m.ChatMessagesFunc != nil {
		return m.ChatMessagesFunc(projectId)
	}
	return []domain.ChatMessage{}, nil
}

func (m *MockChatStorage) User(email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(email)
	}
	return domain.User{Id: 1, Username: "sender", Email: email}, nil
}

type MockActivityStorage struct {
	WriteActivityLogFunc func(log domain.ActivityLog) (domain.ActivityLog, error)
	ActivityLogsFunc     func(projectId domain.ProjectId) ([]domain.ActivityLog, error)
}

func (m *MockActivityStorage) WriteActivityLog(log domain.ActivityLog) (domain.ActivityLog, error) {
	if m.WriteActivityLogFunc != nil {
		return m.WriteActivityLogFunc(log)
	}
	log.Id = 1
	return log, nil
}

func (m *MockActivityStorage) ActivityLogs(projectId domain.ProjectId) ([]domain.ActivityLog, error) {
	if m.ActivityLogsFunc != nil {
		return m.ActivityLogsFunc(projectId)
	}
	return []domain.ActivityLog{}, nil
}

type MockReminderStorage struct {
	DueCardsFunc         func(endDate time.Time) ([]domain.DueCard, error)
	MarkReminderSentFunc func(cardId domain.CardId, offsetKind string, sentOn time.Time) (bool, error)
}

func (m *MockReminderStorage) DueCards(endDate time.Time) ([]domain.DueCard, error) {
	if m.DueCardsFunc != nil {
		return m.DueCardsFunc(endDate)
	}
	return []domain.DueCard{}, nil
}

func (m *MockReminderStorage) MarkReminderSent(cardId domain.CardId, offsetKind string, sentOn time.Time) (bool, error) {
	if m.MarkReminderSentFunc != nil {
		return m.MarkReminderSentFunc(cardId, offsetKind, sentOn)
	}
	return true, nil
}
