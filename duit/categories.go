package duit

import (
	"context"
	"fmt"
	"net/http"
)

// GetCategories returns all categories in backend order.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/category", nil, nil)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := c.do(req, &categories); err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}

	return categories, nil
}

// CreateCategory creates a category with the given name.
func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}

	req, err := c.newRequest(ctx, http.MethodPost, "/category", nil, body)
	if err != nil {
		return nil, err
	}

	var category Category
	if err := c.do(req, &category); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return &category, nil
}

// DeleteCategory removes the category with the given id. The backend rejects
// deleting a category that still has expenses; CategoryInUse lets callers
// check first.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/category/%d", id), nil, nil)
	if err != nil {
		return err
	}

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}

	return nil
}

// CategoryInUse reports whether at least one expense references the category.
func (c *Client) CategoryInUse(ctx context.Context, id int64) (bool, error) {
	expenses, err := c.GetExpenses(ctx, ExpenseFilters{
		CategoryID: id,
		SortBy:     "created_at",
		Order:      "desc",
		Limit:      1,
	})
	if err != nil {
		return false, fmt.Errorf("checking category %d usage: %w", id, err)
	}

	return len(expenses) > 0, nil
}
