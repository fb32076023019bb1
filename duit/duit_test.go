package duit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/carlmjohnson/be"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-token")
	be.NilErr(t, err)

	return client
}

func writeEnvelope(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":   code,
		"status": http.StatusText(code),
		"data":   data,
	})
}

func testExpenses(n int) []Expense {
	expenses := make([]Expense, n)
	for i := range expenses {
		expenses[i] = Expense{
			ID:         int64(i + 1),
			Amount:     int64((i + 1) * 1000),
			CategoryID: 1,
			CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour),
		}
	}
	return expenses
}

func TestGetExpensesUnwrapsNestedData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		be.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		// payload wrapped twice: data.data
		writeEnvelope(w, http.StatusOK, map[string]any{
			"data": testExpenses(2),
		})
	}))

	expenses, err := client.GetExpenses(context.Background(), ExpenseFilters{})
	be.NilErr(t, err)
	be.Equal(t, 2, len(expenses))
	be.Equal(t, int64(1), expenses[0].ID)
}

func TestFetchAllExpensesPageCount(t *testing.T) {
	tests := []struct {
		name          string
		totalRecords  int
		expectedPages int
	}{
		{name: "empty store", totalRecords: 0, expectedPages: 1},
		{name: "one partial page", totalRecords: 10, expectedPages: 1},
		{name: "exactly one full page", totalRecords: 250, expectedPages: 2},
		{name: "two and a bit pages", totalRecords: 510, expectedPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := testExpenses(tt.totalRecords)
			var pagesServed int

			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				pagesServed++

				limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
				offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
				be.Equal(t, defaultPageSize, limit)
				be.Equal(t, "created_at", r.URL.Query().Get("sort_by"))
				be.Equal(t, "desc", r.URL.Query().Get("order"))

				start := min(offset, len(all))
				end := min(offset+limit, len(all))
				writeEnvelope(w, http.StatusOK, all[start:end])
			}))

			expenses, err := client.FetchAllExpenses(context.Background(), ExpenseFilters{})
			be.NilErr(t, err)
			be.Equal(t, tt.expectedPages, pagesServed)
			be.Equal(t, tt.totalRecords, len(expenses))

			// no duplicates across page boundaries
			seen := make(map[int64]bool, len(expenses))
			for _, e := range expenses {
				if seen[e.ID] {
					t.Fatalf("duplicate expense %d in paged result", e.ID)
				}
				seen[e.ID] = true
			}
		})
	}
}

func TestFetchAllExpensesAbortsOnPageError(t *testing.T) {
	var pagesServed int

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		if pagesServed == 2 {
			writeEnvelope(w, http.StatusInternalServerError, "boom")
			return
		}
		writeEnvelope(w, http.StatusOK, testExpenses(defaultPageSize))
	}))

	_, err := client.FetchAllExpenses(context.Background(), ExpenseFilters{})
	be.Nonzero(t, err)
	be.Equal(t, 2, pagesServed)
}

func TestUpdateExpenseRetriesOnceOnNotFound(t *testing.T) {
	var attempts int

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		be.Equal(t, http.MethodPut, r.Method)

		if attempts == 1 {
			writeEnvelope(w, http.StatusNotFound, nil)
			return
		}
		writeEnvelope(w, http.StatusOK, Expense{ID: 7, Amount: 5000, CategoryID: 1})
	}))

	amount := int64(5000)
	expense, err := client.UpdateExpense(context.Background(), 7, UpdateExpenseRequest{Amount: &amount})
	be.NilErr(t, err)
	be.Equal(t, 2, attempts)
	be.Equal(t, int64(5000), expense.Amount)
}

func TestDeleteExpenseDoesNotRetryTwice(t *testing.T) {
	var attempts int

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		writeEnvelope(w, http.StatusNotFound, nil)
	}))

	err := client.DeleteExpense(context.Background(), 9)
	be.Nonzero(t, err)
	be.True(t, IsNotFound(err))
	be.Equal(t, 2, attempts)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":400,"status":"Bad Request","message":"amount is required"}`)
	}))

	_, err := client.CreateExpense(context.Background(), CreateExpenseRequest{CategoryID: 1})
	be.Nonzero(t, err)
	be.In(t, "amount is required", err.Error())
}

func TestExpenseFiltersValues(t *testing.T) {
	filters := ExpenseFilters{
		CategoryID:    3,
		MinAmount:     1000,
		CreatedAfter:  time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC),
		CreatedBefore: time.Date(2024, 5, 2, 16, 59, 59, 0, time.UTC),
		SortBy:        "created_at",
		Order:         "desc",
	}

	v := filters.values()
	be.Equal(t, "3", v.Get("category_id"))
	be.Equal(t, "1000", v.Get("min_amount"))
	be.Equal(t, "2024-05-01T17:00:00Z", v.Get("created_after"))
	be.Equal(t, "2024-05-02T16:59:59Z", v.Get("created_before"))
	be.Equal(t, "", v.Get("max_amount"))
	be.Equal(t, "", v.Get("limit"))

	be.True(t, ExpenseFilters{}.IsZero())
	be.False(t, filters.IsZero())
}

func TestGetSummaryMalformedPayloadDegrades(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"code":200,"status":"OK"}`)
	}))

	report, err := client.GetSummary(context.Background())
	be.NilErr(t, err)
	be.Equal(t, int64(0), report.TotalAll)
	be.Equal(t, 0, len(report.Categories))
}

func TestCategoryInUse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		be.Equal(t, "5", r.URL.Query().Get("category_id"))
		be.Equal(t, "1", r.URL.Query().Get("limit"))
		writeEnvelope(w, http.StatusOK, testExpenses(1))
	}))

	inUse, err := client.CategoryInUse(context.Background(), 5)
	be.NilErr(t, err)
	be.True(t, inUse)
}
