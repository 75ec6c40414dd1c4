package domain

import "time"

type Column struct {
	Id        ColumnId
	Title     string
	ProjectId ProjectId
}

// Card belongs to exactly one column at a time. Moving a card is a single
// ColumnId update, never a delete+recreate. Intra-column ordering is
// insertion order; there is no position field.
type Card struct {
	Id          CardId
	Title       string
	Description string
	ColumnId    ColumnId
	Assignee    *UserId
	StartDate   *time.Time
	EndDate     *time.Time
}

// CardDetail is the single-card view shown in the modal: the card fields
// plus the assignee's display name resolved from users.
type CardDetail struct {
	Assignee         *UserId
	AssigneeUsername *string
	StartDate        *time.Time
	EndDate          *time.Time
	Description      string
}

type CardCreationData struct {
	Title    string
	ColumnId ColumnId
}

// DueCard is a reminder-sweep candidate: a card with a deadline joined
// with its assignee's contact fields and the owning project's name.
type DueCard struct {
	CardId           CardId
	Title            string
	EndDate          time.Time
	AssigneeEmail    Email
	AssigneeUsername string
	ProjectName      string
}
