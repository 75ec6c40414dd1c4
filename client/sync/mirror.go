package sync

import (
	"sync"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
)

// Mirrors hold the last fetched state for one open view. A signal never
// carries data; applying one triggers a full refetch that replaces the
// mirror wholesale. The hub-stamped sequence number guards against an
// older in-flight refetch overwriting the result of a newer one: a
// response is dropped when a higher-seq signal has already been applied.

// BoardFetcher is the slice of the API client the board mirror needs.
type BoardFetcher interface {
	GetColumns(projectId int64) ([]domain.Column, error)
	GetCards(projectId, columnId int64) ([]domain.Card, error)
}

// BoardMirror mirrors the column/card structure of one project board.
type BoardMirror struct {
	api       BoardFetcher
	projectId int64

	mu         sync.RWMutex
	columns    []domain.Column
	cards      map[int64][]domain.Card
	appliedSeq uint64
}

func NewBoardMirror(api BoardFetcher, projectId int64) *BoardMirror {
	return &BoardMirror{api: api, projectId: projectId, cards: map[int64][]domain.Card{}}
}

// Apply reacts to an isChanged signal scoped to this project by refetching
// the column list and every column's cards.
func (m *BoardMirror) Apply(signal api.Signal) error {
	if signal.Kind != api.SignalChanged {
		return nil
	}
	if signal.ProjectId != 0 && signal.ProjectId != m.projectId {
		return nil
	}

	columns, err := m.api.GetColumns(m.projectId)
	if err != nil {
		return err
	}
	cards := make(map[int64][]domain.Card, len(columns))
	for _, column := range columns {
		columnCards, err := m.api.GetCards(m.projectId, column.Id)
		if err != nil {
			return err
		}
		cards[column.Id] = columnCards
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if stale(signal.Seq, m.appliedSeq) {
		return nil
	}
	m.columns = columns
	m.cards = cards
	if signal.Seq > m.appliedSeq {
		m.appliedSeq = signal.Seq
	}
	return nil
}

func (m *BoardMirror) Columns() []domain.Column {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.columns
}

func (m *BoardMirror) Cards(columnId int64) []domain.Card {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cards[columnId]
}

// CardFetcher is the slice of the API client the card mirror needs.
type CardFetcher interface {
	GetCardDetail(projectId, cardId int64) (domain.CardDetail, error)
	GetComments(projectId, cardId int64) ([]domain.Comment, error)
}

// CardMirror mirrors the modal view of one open card: its detail fields
// plus the comment thread.
type CardMirror struct {
	api       CardFetcher
	projectId int64
	cardId    int64

	mu         sync.RWMutex
	detail     domain.CardDetail
	comments   []domain.Comment
	appliedSeq uint64
}

func NewCardMirror(api CardFetcher, projectId, cardId int64) *CardMirror {
	return &CardMirror{api: api, projectId: projectId, cardId: cardId}
}

func (m *CardMirror) Apply(signal api.Signal) error {
	if signal.Kind != api.SignalModalChanged {
		return nil
	}
	if signal.ProjectId != 0 && signal.ProjectId != m.projectId {
		return nil
	}
	if signal.CardId != 0 && signal.CardId != m.cardId {
		return nil
	}

	detail, err := m.api.GetCardDetail(m.projectId, m.cardId)
	if err != nil {
		return err
	}
	comments, err := m.api.GetComments(m.projectId, m.cardId)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if stale(signal.Seq, m.appliedSeq) {
		return nil
	}
	m.detail = detail
	m.comments = comments
	if signal.Seq > m.appliedSeq {
		m.appliedSeq = signal.Seq
	}
	return nil
}

func (m *CardMirror) Detail() domain.CardDetail {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.detail
}

func (m *CardMirror) Comments() []domain.Comment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.comments
}

// ChatFetcher is the slice of the API client the chat mirror needs.
type ChatFetcher interface {
	GetChat(projectId int64) ([]domain.ChatMessage, error)
}

// ChatMirror mirrors one project's chat transcript, oldest first.
type ChatMirror struct {
	api       ChatFetcher
	projectId int64

	mu         sync.RWMutex
	messages   []domain.ChatMessage
	appliedSeq uint64
}

func NewChatMirror(api ChatFetcher, projectId int64) *ChatMirror {
	return &ChatMirror{api: api, projectId: projectId}
}

func (m *ChatMirror) Apply(signal api.Signal) error {
	if signal.Kind != api.SignalMessage {
		return nil
	}
	if signal.ProjectId != 0 && signal.ProjectId != m.projectId {
		return nil
	}

	messages, err := m.api.GetChat(m.projectId)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if stale(signal.Seq, m.appliedSeq) {
		return nil
	}
	m.messages = messages
	if signal.Seq > m.appliedSeq {
		m.appliedSeq = signal.Seq
	}
	return nil
}

func (m *ChatMirror) Messages() []domain.ChatMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.messages
}

// stale reports whether a refetch triggered by seq has been superseded by
// one already applied. Unstamped signals (seq 0) always apply.
func stale(seq, applied uint64) bool {
	return seq != 0 && seq < applied
}
