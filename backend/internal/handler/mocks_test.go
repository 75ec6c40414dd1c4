package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/plankhq/plank/shared/domain"
	mw "github.com/plankhq/plank/shared/middleware"
)

// authedRequest clones the request with an authenticated user in context,
// the way the auth middleware would.
func authedRequest(r *http.Request, user domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), mw.UserClaimsKey, &user)
	return r.WithContext(ctx)
}

var testUser = domain.User{Id: 42, Username: "alice", Email: "alice@example.com"}

func do(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

type MockAuthService struct {
	MockRegister              func(username string, creds domain.Credentials) error
	MockCheckConfirmationCode func(email domain.Email, code string) error
	MockLogin                 func(creds domain.Credentials) (string, domain.User, error)
	MockChangePassword        func(email domain.Email, currentPassword, newPassword string) error
	MockCreateLoginToken      func(email domain.Email) (domain.LoginToken, error)
	MockRedeemLoginToken      func(token string) (string, domain.User, error)
	MockDeleteLoginToken      func(token string) error
}

func (m *MockAuthService) Register(username string, creds domain.Credentials) error {
	if m.MockRegister != nil {
		return m.MockRegister(username, creds)
	}
	return nil
}

func (m *MockAuthService) CheckConfirmationCode(email domain.Email, code string) error {
	if m.MockCheckConfirmationCode != nil {
		return m.MockCheckConfirmationCode(email, code)
	}
	return nil
}

func (m *MockAuthService) Login(creds domain.Credentials) (string, domain.User, error) {
	if m.MockLogin != nil {
		return m.MockLogin(creds)
	}
	return "token", testUser, nil
}

func (m *MockAuthService) ChangePassword(email domain.Email, currentPassword, newPassword string) error {
	if m.MockChangePassword != nil {
		return m.MockChangePassword(email, currentPassword, newPassword)
	}
	return nil
}

func (m *MockAuthService) CreateLoginToken(email domain.Email) (domain.LoginToken, error) {
	if m.MockCreateLoginToken != nil {
		return m.MockCreateLoginToken(email)
	}
	return domain.LoginToken{Email: email, Token: "login-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *MockAuthService) RedeemLoginToken(token string) (string, domain.User, error) {
	if m.MockRedeemLoginToken != nil {
		return m.MockRedeemLoginToken(token)
	}
	return "token", testUser, nil
}

func (m *MockAuthService) DeleteLoginToken(token string) error {
	if m.MockDeleteLoginToken != nil {
		return m.MockDeleteLoginToken(token)
	}
	return nil
}

type MockProjectService struct {
	MockCreate         func(data domain.ProjectCreationData) (domain.Project, error)
	MockProjectsByUser func(userId domain.UserId) ([]domain.Project, error)
	MockUpdate         func(projectId domain.ProjectId, name, description string) error
	MockDelete         func(projectId domain.ProjectId, requester domain.UserId) error
	MockMembers        func(projectId domain.ProjectId) ([]domain.Member, error)
	MockChangeRole     func(projectId domain.ProjectId, requester, target domain.UserId, role domain.Role) error
	MockCreateInvite   func(projectId domain.ProjectId, inviterEmail domain.Email) (domain.InviteToken, string, error)
	MockAcceptInvite   func(token string, userId domain.UserId) (domain.Project, error)
}

func (m *MockProjectService) Create(data domain.ProjectCreationData) (domain.Project, error) {
	if m.MockCreate != nil {
		return m.MockCreate(data)
	}
	return domain.Project{Id: 1, Name: data.Name}, nil
}

func (m *MockProjectService) ProjectsByUser(userId domain.UserId) ([]domain.Project, error) {
	if m.MockProjectsByUser != nil {
		return m.MockProjectsByUser(userId)
	}
	return []domain.Project{}, nil
}

func (m *MockProjectService) Update(projectId domain.ProjectId, name, description string) error {
	if m.MockUpdate != nil {
		return m.MockUpdate(projectId, name, description)
	}
	return nil
}

func (m *MockProjectService) Delete(projectId domain.ProjectId, requester domain.UserId) error {
	if m.MockDelete != nil {
		return m.MockDelete(projectId, requester)
	}
	return nil
}

func (m *MockProjectService) Members(projectId domain.ProjectId) ([]domain.Member, error) {
	if m.MockMembers != nil {
		return m.MockMembers(projectId)
	}
	return []domain.Member{}, nil
}

func (m *MockProjectService) ChangeRole(projectId domain.ProjectId, requester, target domain.UserId, role domain.Role) error {
	if m.MockChangeRole != nil {
		return m.MockChangeRole(projectId, requester, target, role)
	}
	return nil
}

func (m *MockProjectService) CreateInvite(projectId domain.ProjectId, inviterEmail domain.Email) (domain.InviteToken, string, error) {
	if m.MockCreateInvite != nil {
		return m.MockCreateInvite(projectId, inviterEmail)
	}
	return domain.InviteToken{Token: "tok", ProjectId: projectId}, "https://plank.example.com/invite/tok", nil
}

func (m *MockProjectService) AcceptInvite(token string, userId domain.UserId) (domain.Project, error) {
	if m.MockAcceptInvite != nil {
		return m.MockAcceptInvite(token, userId)
	}
	return domain.Project{Id: 1}, nil
}

type MockBoardService struct {
	MockColumns             func(projectId domain.ProjectId) ([]domain.Column, error)
	MockCreateColumn        func(projectId domain.ProjectId, title string) (domain.Column, error)
	MockDeleteColumn        func(columnId domain.ColumnId) error
	MockCardsByColumn       func(columnId domain.ColumnId) ([]domain.Card, error)
	MockCreateCard          func(data domain.CardCreationData) (domain.Card, error)
	MockDeleteCard          func(cardId domain.CardId) error
	MockDeleteCardsByColumn func(columnId domain.ColumnId) (int64, error)
	MockMoveCard            func(cardId domain.CardId, columnId domain.ColumnId) error
	MockEditCardTitle       func(cardId domain.CardId, title string) error
	MockEditCardDescription func(cardId domain.CardId, description string) error
	MockSetCardDates        func(cardId domain.CardId, start, end *time.Time) error
	MockSetCardAssignee     func(cardId domain.CardId, assignee *domain.UserId) error
	MockCardDetail          func(cardId domain.CardId) (domain.CardDetail, error)
}

func (m *MockBoardService) Columns(projectId domain.ProjectId) ([]domain.Column, error) {
	if m.MockColumns != nil {
		return m.MockColumns(projectId)
	}
	return []domain.Column{}, nil
}

func (m *MockBoardService) CreateColumn(projectId domain.ProjectId, title string) (domain.Column, error) {
	if m.MockCreateColumn != nil {
		return m.MockCreateColumn(projectId, title)
	}
	return domain.Column{Id: 1, Title: title, ProjectId: projectId}, nil
}

func (m *MockBoardService) DeleteColumn(columnId domain.ColumnId) error {
	if m.MockDeleteColumn != nil {
		return m.MockDeleteColumn(columnId)
	}
	return nil
}

func (m *MockBoardService) CardsByColumn(columnId domain.ColumnId) ([]domain.Card, error) {
	if m.MockCardsByColumn != nil {
		return m.MockCardsByColumn(columnId)
	}
	return []domain.Card{}, nil
}

func (m *MockBoardService) CreateCard(data domain.CardCreationData) (domain.Card, error) {
	if m.MockCreateCard != nil {
		return m.MockCreateCard(data)
	}
	return domain.Card{Id: 1, Title: data.Title, ColumnId: data.ColumnId}, nil
}

func (m *MockBoardService) DeleteCard(cardId domain.CardId) error {
	if m.MockDeleteCard != nil {
		return m.MockDeleteCard(cardId)
	}
	return nil
}

func (m *MockBoardService) DeleteCardsByColumn(columnId domain.ColumnId) (int64, error) {
	if m.MockDeleteCardsByColumn != nil {
		return m.MockDeleteCardsByColumn(columnId)
	}
	return 0, nil
}

func (m *MockBoardService) MoveCard(cardId domain.CardId, columnId domain.ColumnId) error {
	if m.MockMoveCard != nil {
		return m.MockMoveCard(cardId, columnId)
	}
	return nil
}

func (m *MockBoardService) EditCardTitle(cardId domain.CardId, title string) error {
	if m.MockEditCardTitle != nil {
		return m.MockEditCardTitle(cardId, title)
	}
	return nil
}

func (m *MockBoardService) EditCardDescription(cardId domain.CardId, description string) error {
	if m.MockEditCardDescription != nil {
		return m.MockEditCardDescription(cardId, description)
	}
	return nil
}

func (m *MockBoardService) SetCardDates(cardId domain.CardId, start, end *time.Time) error {
	if m.MockSetCardDates != nil {
		return m.MockSetCardDates(cardId, start, end)
	}
	return nil
}

func (m *MockBoardService) SetCardAssignee(cardId domain.CardId, assignee *domain.UserId) error {
	if m.MockSetCardAssignee != nil {
		return m.MockSetCardAssignee(cardId, assignee)
	}
	return nil
}

func (m *MockBoardService) CardDetail(cardId domain.CardId) (domain.CardDetail, error) {
	if m.MockCardDetail != nil {
		return m.MockCardDetail(cardId)
	}
	return domain.CardDetail{}, nil
}

type MockCommentService struct {
	MockCreate         func(data domain.CommentCreationData) (domain.Comment, error)
	MockCommentsByCard func(cardId domain.CardId) ([]domain.Comment, error)
	MockEdit           func(commentId domain.CommentId, content string) error
	MockDelete         func(commentId domain.CommentId) error
}

func (m *MockCommentService) Create(data domain.CommentCreationData) (domain.Comment, error) {
	if m.MockCreate != nil {
		return m.MockCreate(data)
	}
	return domain.Comment{Id: 1, Content: data.Content, CardId: data.CardId}, nil
}

func (m *MockCommentService) CommentsByCard(cardId domain.CardId) ([]domain.Comment, error) {
	if m.MockCommentsByCard != nil {
		return m.MockCommentsByCard(cardId)
	}
	return []domain.Comment{}, nil
}

func (m *MockCommentService) Edit(commentId domain.CommentId, content string) error {
	if m.MockEdit != nil {
		return m.MockEdit(commentId, content)
	}
	return nil
}

func (m *MockCommentService) Delete(commentId domain.CommentId) error {
	if m.MockDelete != nil {
		return m.MockDelete(commentId)
	}
	return nil
}

type MockChatService struct {
	MockSend     func(data domain.ChatMessageCreationData) (domain.ChatMessage, error)
	MockMessages func(projectId domain.ProjectId) ([]domain.ChatMessage, error)
}

func (m *MockChatService) Send(data domain.ChatMessageCreationData) (domain.ChatMessage, error) {
	if m.MockSend != nil {
		return m.MockSend(data)
	}
	return domain.ChatMessage{Id: 1, Content: data.Content, ProjectId: data.ProjectId}, nil
}

func (m *MockChatService) Messages(projectId domain.ProjectId) ([]domain.ChatMessage, error) {
	if m.MockMessages != nil {
		return m.MockMessages(projectId)
	}
	return []domain.ChatMessage{}, nil
}

type MockActivityService struct {
	MockWrite func(log domain.ActivityLog) (domain.ActivityLog, error)
	MockLogs  func(projectId domain.ProjectId) ([]domain.ActivityLog, error)
}

func (m *MockActivityService) Write(log domain.ActivityLog) (domain.ActivityLog, error) {
	if m.MockWrite != nil {
		return m.MockWrite(log)
	}
	log.Id = 1
	return log, nil
}

func (m *MockActivityService) Logs(projectId domain.ProjectId) ([]domain.ActivityLog, error) {
	if m.MockLogs != nil {
		return m.MockLogs(projectId)
	}
	return []domain.ActivityLog{}, nil
}
