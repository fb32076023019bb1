package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aryapratama/duittui/duit"
	"github.com/aryapratama/duittui/viewstate"
)

const (
	jsonOutputFormat  = "json"
	tableOutputFormat = "table"
)

// Global variables for configuration.
var (
	cfgFile string
	debug   bool
	token   string
	baseURL string
	client  *duit.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "duittui",
	Short: "A terminal UI and CLI for tracking daily expenses",
	Long:  `A terminal-based interface and CLI for recording expenses, browsing spending history, and reviewing summaries from a duit server.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		config := loadConfig()

		log.SetLevel(log.InfoLevel)
		if config.Debug {
			log.SetLevel(log.DebugLevel)
		}

		if config.Token == "" {
			return errors.New("API token is required (set via --token flag, " +
				"DUITTUI_API_TOKEN environment variable, or config file)")
		}
		if config.BaseURL == "" {
			return errors.New("server base URL is required (set via --base-url flag, " +
				"DUITTUI_BASE_URL environment variable, or config file)")
		}

		var err error
		client, err = duit.NewClient(config.BaseURL, config.Token)
		if err != nil {
			return fmt.Errorf("failed to create duit client: %w", err)
		}
		client.HTTP.Transport = newLoggingTransport(client.HTTP.Transport, log.Default())

		return nil
	},
	RunE: func(c *cobra.Command, _ []string) error {
		// Start TUI when no subcommands are provided
		return rootAction(c.Context(), loadConfig(), client)
	},
}

func loadConfig() Config {
	var colors Colors
	_ = viper.UnmarshalKey("colors", &colors)

	var presets []viewstate.Preset
	_ = viper.UnmarshalKey("presets", &presets)

	return Config{
		Debug:    debug,
		Token:    token,
		BaseURL:  baseURL,
		Timezone: viper.GetString("timezone"),
		Colors:   colors,
		Presets:  presets,
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.duittui.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "the API token for the duit server")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "the base URL of the duit server")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))

	// Bind environment variables
	_ = viper.BindEnv("token", "DUITTUI_API_TOKEN")
	_ = viper.BindEnv("base_url", "DUITTUI_BASE_URL")

	// Add subcommands
	rootCmd.AddCommand(expenseCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(summaryCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			log.Error("Error finding home directory", "error", err)
			os.Exit(1)
		}

		// Search config in multiple locations (in order of precedence)
		// Current directory (highest precedence)
		viper.AddConfigPath(".")
		viper.SetConfigName("duittui")
		viper.SetConfigType("toml")

		// User config directory
		if configDir, configErr := os.UserConfigDir(); configErr == nil {
			viper.AddConfigPath(filepath.Join(configDir, "duittui"))
		}

		// User home directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".config", "duittui"))

		// System-wide config directory (lowest precedence)
		viper.AddConfigPath("/etc/duittui")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		log.Debug("Config file not found or error reading", "error", err)
		return
	}

	log.Debug("Using config file", "file", viper.ConfigFileUsed())

	// Update global variables from viper
	if !rootCmd.PersistentFlags().Changed("debug") {
		debug = viper.GetBool("debug")
	}
	if !rootCmd.PersistentFlags().Changed("token") {
		token = viper.GetString("token")
	}
	if !rootCmd.PersistentFlags().Changed("base-url") {
		baseURL = viper.GetString("base_url")
	}
}

// appLocation resolves the local timezone used for day bucketing. An
// explicit timezone in the config wins over the system zone.
func appLocation() *time.Location {
	if tz := viper.GetString("timezone"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
		log.Warn("invalid timezone in config, using system zone", "timezone", tz)
	}
	return time.Local
}

// Utility functions for output formatting.
func outputJSON(data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Println(string(jsonData))
	return nil
}

func createStyledTable(headers ...string) *table.Table {
	var (
		purple    = lipgloss.Color("99")
		gray      = lipgloss.Color("245")
		lightGray = lipgloss.Color("241")

		headerStyle  = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
		cellStyle    = lipgloss.NewStyle().Padding(0, 1)
		oddRowStyle  = cellStyle.Foreground(gray)
		evenRowStyle = cellStyle.Foreground(lightGray)
	)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers(headers...)
}
