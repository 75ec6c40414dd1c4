package apiclient

import (
	"fmt"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
)

// === Board Methods ===

func (c *APIClient) GetColumns(projectId int64) ([]domain.Column, error) {
	var response api.ColumnListResponse
	if err := c.doJSON("GET", fmt.Sprintf("/v1/projects/%d/columns", projectId), nil, &response); err != nil {
		return nil, err
	}
	return response.Columns, nil
}

func (c *APIClient) CreateColumn(projectId int64, title string) (domain.Column, error) {
	var response api.ColumnResponse
	err := c.doJSON("POST", fmt.Sprintf("/v1/projects/%d/columns", projectId), api.CreateColumnRequest{Title: title}, &response)
	return response.Column, err
}

func (c *APIClient) DeleteColumn(projectId, columnId int64) error {
	return c.doJSON("DELETE", fmt.Sprintf("/v1/projects/%d/columns/%d", projectId, columnId), nil, nil)
}

func (c *APIClient) GetCards(projectId, columnId int64) ([]domain.Card, error) {
	var response api.CardListResponse
	if err := c.doJSON("GET", fmt.Sprintf("/v1/projects/%d/columns/%d/cards", projectId, columnId), nil, &response); err != nil {
		return nil, err
	}
	return response.Cards, nil
}

func (c *APIClient) CreateCard(projectId, columnId int64, title string) (domain.Card, error) {
	var response api.CardResponse
	err := c.doJSON("POST", fmt.Sprintf("/v1/projects/%d/columns/%d/cards", projectId, columnId), api.CreateCardRequest{Title: title}, &response)
	return response.Card, err
}

// DeleteCards bulk-deletes every card in a column and reports how many
// went away.
func (c *APIClient) DeleteCards(projectId, columnId int64) (int64, error) {
	var response api.DeletedResponse
	if err := c.doJSON("DELETE", fmt.Sprintf("/v1/projects/%d/columns/%d/cards", projectId, columnId), nil, &response); err != nil {
		return 0, err
	}
	return response.DeletedCount, nil
}

func (c *APIClient) GetCardDetail(projectId, cardId int64) (domain.CardDetail, error) {
	var response api.CardDetailResponse
	err := c.doJSON("GET", fmt.Sprintf("/v1/projects/%d/cards/%d", projectId, cardId), nil, &response)
	return response.CardDetail, err
}

func (c *APIClient) DeleteCard(projectId, cardId int64) error {
	return c.doJSON("DELETE", fmt.Sprintf("/v1/projects/%d/cards/%d", projectId, cardId), nil, nil)
}

func (c *APIClient) MoveCard(projectId, cardId, columnId int64) error {
	return c.doJSON("PUT", fmt.Sprintf("/v1/projects/%d/cards/%d/move", projectId, cardId), api.MoveCardRequest{ColumnId: columnId}, nil)
}

func (c *APIClient) EditCardTitle(projectId, cardId int64, title string) error {
	return c.doJSON("PUT", fmt.Sprintf("/v1/projects/%d/cards/%d/title", projectId, cardId), api.EditCardTitleRequest{Title: title}, nil)
}

func (c *APIClient) EditCardDescription(projectId, cardId int64, description string) error {
	return c.doJSON("PUT", fmt.Sprintf("/v1/projects/%d/cards/%d/description", projectId, cardId), api.EditCardDescriptionRequest{Description: description}, nil)
}

// SetCardDates sets either bound of the card's date range; nil clears a
// bound. Dates travel as YYYY-MM-DD.
func (c *APIClient) SetCardDates(projectId, cardId int64, startDate, endDate *string) error {
	return c.doJSON("PUT", fmt.Sprintf("/v1/projects/%d/cards/%d/dates", projectId, cardId), api.SetCardDatesRequest{StartDate: startDate, EndDate: endDate}, nil)
}

// SetCardAssignee assigns the card; nil unassigns.
func (c *APIClient) SetCardAssignee(projectId, cardId int64, assignee *int64) error {
	return c.doJSON("PUT", fmt.Sprintf("/v1/projects/%d/cards/%d/assignee", projectId, cardId), api.SetCardAssigneeRequest{Assignee: assignee}, nil)
}
