package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
	"github.com/aryapratama/duittui/quickadd"
)

// expenseCmd represents the expense command.
var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Expense management commands",
	Long:  `Commands for listing and recording expenses on the duit server.`,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	Long:  `List expenses, optionally filtered by category, amount range, date range, or description.`,
	RunE:  expenseListRun,
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new expense",
	Long: `Record a new expense. Either pass --amount and --category explicitly,
or pass --text with free-form input like "makan siang 25rb" and let the
amount be parsed out of it.`,
	RunE: expenseAddRun,
}

var expenseUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an expense",
	Long:  `Update the fields of an existing expense. Only the flags that are set are sent to the server.`,
	Args:  cobra.ExactArgs(1),
	RunE:  expenseUpdateRun,
}

var expenseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  expenseDeleteRun,
}

func init() {
	expenseCmd.AddCommand(expenseListCmd)
	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseUpdateCmd)
	expenseCmd.AddCommand(expenseDeleteCmd)

	expenseListCmd.Flags().Int64("category", 0, "Filter by category ID")
	expenseListCmd.Flags().Int64("min-amount", 0, "Minimum amount in rupiah")
	expenseListCmd.Flags().Int64("max-amount", 0, "Maximum amount in rupiah")
	expenseListCmd.Flags().String("after", "", "Only expenses on or after this local day (YYYY-MM-DD)")
	expenseListCmd.Flags().String("before", "", "Only expenses on or before this local day (YYYY-MM-DD)")
	expenseListCmd.Flags().String("description", "", "Filter by description substring")
	expenseListCmd.Flags().Int("limit", 0, "Maximum number of expenses to return")
	expenseListCmd.Flags().String("preset", "", "Apply a saved filter preset from the config file")
	expenseListCmd.Flags().Bool("all", false, "Fetch every page of results")
	expenseListCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")

	expenseAddCmd.Flags().Int64("amount", 0, "Amount in rupiah")
	expenseAddCmd.Flags().Int64("category", 0, "Category ID")
	expenseAddCmd.Flags().String("description", "", "Description of the expense")
	expenseAddCmd.Flags().String("text", "", `Free-form quick entry, e.g. "kopi 18k"`)

	expenseUpdateCmd.Flags().Int64("amount", 0, "New amount in rupiah")
	expenseUpdateCmd.Flags().Int64("category", 0, "New category ID")
	expenseUpdateCmd.Flags().String("description", "", "New description")
}

func expenseListRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	outputFormat, _ := cmd.Flags().GetString("output")
	validFormats := []string{tableOutputFormat, jsonOutputFormat}
	if !slices.Contains(validFormats, outputFormat) {
		return fmt.Errorf("invalid output format: %s (must be one of %v)", outputFormat, validFormats)
	}

	filters, err := expenseFiltersFromFlags(cmd)
	if err != nil {
		return err
	}

	fetchAll, _ := cmd.Flags().GetBool("all")

	var expenses []duit.Expense
	if fetchAll {
		expenses, err = client.FetchAllExpenses(ctx, filters)
	} else {
		expenses, err = client.GetExpenses(ctx, filters)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch expenses: %w", err)
	}

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(expenses)
	case tableOutputFormat:
		return outputExpensesTable(cmd, expenses)
	default:
		return errors.New("unsupported output format")
	}
}

func expenseFiltersFromFlags(cmd *cobra.Command) (duit.ExpenseFilters, error) {
	var filters duit.ExpenseFilters

	if name, _ := cmd.Flags().GetString("preset"); name != "" {
		for _, p := range loadConfig().Presets {
			if p.Name == name {
				return p.Filters(appLocation())
			}
		}
		return filters, fmt.Errorf("no saved preset named %q", name)
	}

	filters.CategoryID, _ = cmd.Flags().GetInt64("category")
	filters.MinAmount, _ = cmd.Flags().GetInt64("min-amount")
	filters.MaxAmount, _ = cmd.Flags().GetInt64("max-amount")
	filters.Description, _ = cmd.Flags().GetString("description")
	filters.Limit, _ = cmd.Flags().GetInt("limit")

	loc := appLocation()

	if after, _ := cmd.Flags().GetString("after"); after != "" {
		day, err := daykey.Parse(after)
		if err != nil {
			return filters, err
		}
		filters.CreatedAfter, _ = day.Range(loc)
	}
	if before, _ := cmd.Flags().GetString("before"); before != "" {
		day, err := daykey.Parse(before)
		if err != nil {
			return filters, err
		}
		_, filters.CreatedBefore = day.Range(loc)
	}

	return filters, nil
}

func outputExpensesTable(cmd *cobra.Command, expenses []duit.Expense) error {
	categories, err := client.GetCategories(cmd.Context())
	if err != nil {
		log.Debug("could not resolve category names", "error", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	loc := appLocation()
	t := createStyledTable("ID", "DATE", "DESCRIPTION", "CATEGORY", "AMOUNT")
	for _, e := range expenses {
		name := names[e.CategoryID]
		if name == "" {
			name = strconv.FormatInt(e.CategoryID, 10)
		}
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			e.Description,
			name,
			money.New(e.Amount, money.IDR).Display(),
		)
	}

	fmt.Println(t)
	return nil
}

func expenseAddRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	text, _ := cmd.Flags().GetString("text")
	amount, _ := cmd.Flags().GetInt64("amount")
	categoryID, _ := cmd.Flags().GetInt64("category")
	description, _ := cmd.Flags().GetString("description")

	create := duit.CreateExpenseRequest{
		Amount:      amount,
		CategoryID:  categoryID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if text != "" {
		draft, err := quickadd.Parse(text, time.Now())
		if err != nil {
			return fmt.Errorf("could not parse %q: %w", text, err)
		}
		create.Amount = draft.Amount
		if create.Description == "" {
			create.Description = draft.Description
		}
	}

	if create.Amount <= 0 {
		return errors.New("an amount is required (set --amount or --text)")
	}

	if create.CategoryID == 0 {
		categories, err := client.GetCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch categories: %w", err)
		}
		def, err := quickadd.DefaultCategory(categories)
		if err != nil {
			return errors.New("no categories exist yet; create one with 'duittui category add'")
		}
		create.CategoryID = def.ID
	}

	expense, err := client.CreateExpense(ctx, create)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	log.Infof("Expense recorded with ID %d (%s)", expense.ID, money.New(expense.Amount, money.IDR).Display())
	return nil
}

func expenseUpdateRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expense ID: %s", args[0])
	}

	var update duit.UpdateExpenseRequest
	if cmd.Flags().Changed("amount") {
		amount, _ := cmd.Flags().GetInt64("amount")
		update.Amount = &amount
	}
	if cmd.Flags().Changed("category") {
		categoryID, _ := cmd.Flags().GetInt64("category")
		update.CategoryID = &categoryID
	}
	if cmd.Flags().Changed("description") {
		description, _ := cmd.Flags().GetString("description")
		update.Description = &description
	}
	if update.Amount == nil && update.CategoryID == nil && update.Description == nil {
		return errors.New("nothing to update: set at least one of --amount, --category, --description")
	}

	expense, err := client.UpdateExpense(ctx, id, update)
	if err != nil {
		if duit.IsNotFound(err) {
			return fmt.Errorf("expense %d not found", id)
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}

	log.Infof("Expense %d updated", expense.ID)
	return nil
}

func expenseDeleteRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expense ID: %s", args[0])
	}

	if err := client.DeleteExpense(ctx, id); err != nil {
		if duit.IsNotFound(err) {
			return fmt.Errorf("expense %d not found", id)
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	log.Infof("Expense %d deleted", id)
	return nil
}
