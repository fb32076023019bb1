package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aryapratama/duittui/duit"
)

// categoryStore defines the category operations the CLI needs, so the
// commands can be exercised against a fake in tests.
type categoryStore interface {
	GetCategories(ctx context.Context) ([]duit.Category, error)
	CreateCategory(ctx context.Context, name string) (*duit.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	CategoryInUse(ctx context.Context, id int64) (bool, error)
}

// categoryCmd represents the category command.
var categoryCmd = newCategoryCmd(func() categoryStore { return client })

func newCategoryCmd(store func() categoryStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Category management commands",
		Long:  `Commands for managing expense categories on the duit server.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(c *cobra.Command, _ []string) error {
			return categoryListRun(c, store())
		},
	}
	listCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return categoryAddRun(c, store(), args[0])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Refuses to delete a category that still has expenses unless --force is set.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return categoryDeleteRun(c, store(), args[0])
		},
	}
	deleteCmd.Flags().Bool("force", false, "Delete even if the category still has expenses")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(deleteCmd)
	return cmd
}

func categoryListRun(cmd *cobra.Command, store categoryStore) error {
	ctx := cmd.Context()

	outputFormat, _ := cmd.Flags().GetString("output")
	validFormats := []string{tableOutputFormat, jsonOutputFormat}
	if !slices.Contains(validFormats, outputFormat) {
		return fmt.Errorf("invalid output format: %s (must be one of %v)", outputFormat, validFormats)
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}

	// Sort categories by name for consistent output
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(categories)
	case tableOutputFormat:
		t := createStyledTable("ID", "NAME")
		for _, category := range categories {
			t.Row(strconv.FormatInt(category.ID, 10), category.Name)
		}
		fmt.Println(t)
		return nil
	default:
		return errors.New("unsupported output format")
	}
}

func categoryAddRun(cmd *cobra.Command, store categoryStore, name string) error {
	if name == "" {
		return errors.New("category name must not be empty")
	}

	category, err := store.CreateCategory(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	log.Infof("Category %q created with ID %d", category.Name, category.ID)
	return nil
}

func categoryDeleteRun(cmd *cobra.Command, store categoryStore, rawID string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid category ID: %s", rawID)
	}

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		inUse, err := store.CategoryInUse(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}
		if inUse {
			return fmt.Errorf("category %d still has expenses; use --force to delete anyway", id)
		}
	}

	if err := store.DeleteCategory(ctx, id); err != nil {
		if duit.IsNotFound(err) {
			return fmt.Errorf("category %d not found", id)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	log.Infof("Category %d deleted", id)
	return nil
}
