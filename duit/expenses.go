package duit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
)

// defaultPageSize is the page size FetchAllExpenses uses. It mirrors the
// backend's maximum result window.
const defaultPageSize = 250

// GetExpenses returns the expenses matching filters, in the order the
// backend returns them.
func (c *Client) GetExpenses(ctx context.Context, filters ExpenseFilters) ([]Expense, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/expense", filters.values(), nil)
	if err != nil {
		return nil, err
	}

	var expenses []Expense
	if err := c.do(req, &expenses); err != nil {
		return nil, fmt.Errorf("fetching expenses: %w", err)
	}

	return expenses, nil
}

// FetchAllExpenses drives GetExpenses to completion for the whole data set
// matching filters, paging with a stable created_at desc order so no record
// is duplicated or skipped across page boundaries.
//
// A failure on any page aborts the fetch; a partial set is never returned.
func (c *Client) FetchAllExpenses(ctx context.Context, filters ExpenseFilters) ([]Expense, error) {
	filters.SortBy = "created_at"
	filters.Order = "desc"
	filters.Limit = defaultPageSize

	var all []Expense
	for offset := 0; ; offset += defaultPageSize {
		filters.Offset = offset

		page, err := c.GetExpenses(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("page at offset %d: %w", offset, err)
		}

		all = append(all, page...)
		if len(page) < defaultPageSize {
			break
		}
	}

	log.Debug("fetched full expense set", "count", len(all))
	return all, nil
}

// GetExpense fetches one expense by id, retrying once on a transient 404.
func (c *Client) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	var expense Expense
	err := c.withNotFoundRetry(func() error {
		req, reqErr := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/expense/%d", id), nil, nil)
		if reqErr != nil {
			return reqErr
		}
		return c.do(req, &expense)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching expense %d: %w", id, err)
	}

	return &expense, nil
}

// CreateExpense records a new expense and returns it as stored.
func (c *Client) CreateExpense(ctx context.Context, create CreateExpenseRequest) (*Expense, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/expense", nil, create)
	if err != nil {
		return nil, err
	}

	var expense Expense
	if err := c.do(req, &expense); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	return &expense, nil
}

// UpdateExpense applies the non-nil fields of update to the expense with the
// given id, retrying once on a transient 404.
func (c *Client) UpdateExpense(ctx context.Context, id int64, update UpdateExpenseRequest) (*Expense, error) {
	var expense Expense
	err := c.withNotFoundRetry(func() error {
		req, reqErr := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/expense/%d", id), nil, update)
		if reqErr != nil {
			return reqErr
		}
		return c.do(req, &expense)
	})
	if err != nil {
		return nil, fmt.Errorf("updating expense %d: %w", id, err)
	}

	return &expense, nil
}

// DeleteExpense removes the expense with the given id, retrying once on a
// transient 404.
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	err := c.withNotFoundRetry(func() error {
		req, reqErr := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/expense/%d", id), nil, nil)
		if reqErr != nil {
			return reqErr
		}
		return c.do(req, nil)
	})
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", id, err)
	}

	return nil
}

// GetSummary fetches the server-side spending summary.
func (c *Client) GetSummary(ctx context.Context) (*SummaryReport, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/expenses/summary/details", nil, nil)
	if err != nil {
		return nil, err
	}

	var report SummaryReport
	if err := c.do(req, &report); err != nil {
		return nil, fmt.Errorf("fetching summary: %w", err)
	}

	return &report, nil
}

// withNotFoundRetry runs fn and repeats it exactly once when the first
// attempt fails with a 404. The backend occasionally reports not-found for a
// row that exists moments later; one immediate retry absorbs that window.
// No backoff and no further retries.
func (c *Client) withNotFoundRetry(fn func() error) error {
	err := fn()
	if err == nil || !IsNotFound(err) {
		return err
	}

	log.Debug("retrying request after not-found response")
	return fn()
}
