// Package cmd contains all CLI commands for freqtab.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/freqtab/internal/clipboard"
	"github.com/f3rmion/freqtab/internal/config"
	"github.com/f3rmion/freqtab/internal/logging"
	"github.com/f3rmion/freqtab/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const logFileName = "freqtab.log"

var cfgDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "freqtab [data-file]",
	Short: "Tally values into categories and chart the result",
	Long: `freqtab counts how many values fall into each category you define and
shows the result as a table, a bar chart and a pie chart.

Categories:
  5        equal to 5 (5.0 and 05 also match)
  1-3      between 1 and 3, inclusive
  <5 >5    less than / greater than 5
  ≤5 ≥5    at most / at least 5
  apple    the text "apple", case-insensitive

Percentages are relative to all values. The Total row always shows 100%.

Running 'freqtab' without a subcommand launches the interactive TUI. An
optional data file pre-fills the data input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/freqtab)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("table-format", "", "format used when copying the table (html, markdown, csv, tsv, json, yaml)")
	rootCmd.Flags().StringP("categories", "c", "", "pre-fill the categories input")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("table_format", rootCmd.PersistentFlags().Lookup("table-format"))
}

// initConfig reads in ENV variables and resolves the config directory.
func initConfig() {
	if cfgDir != "" {
		viper.Set("config_dir", cfgDir)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("FREQTAB")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadSettings loads the config file and applies flag and env overrides.
func loadSettings() (*config.Config, error) {
	cfg, err := config.LoadDir(getConfigDir())
	if err != nil {
		return nil, err
	}

	if f := viper.GetString("table_format"); f != "" {
		cfg.TableFormat = f
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the default logger writing to out.
func setupLogging(cfg *config.Config, out io.Writer) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	logging.Init(logging.Config{
		Level:  level,
		Format: cfg.Log.Format,
		Output: out,
	})
}

// runTUI launches the interactive TUI.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so logs go to a file.
	configDir := getConfigDir()
	logFile, err := logging.OpenFile(configDir, logFileName)
	if err != nil {
		setupLogging(cfg, io.Discard)
	} else {
		defer logFile.Close()
		setupLogging(cfg, logFile)
	}
	log := logging.ForComponent("cmd")

	chartOpts, err := cfg.ChartOptions()
	if err != nil {
		log.Warn("using fallback chart font", "err", err)
	}

	app := tui.NewApp(cfg, chartOpts, nil)
	app.SetConfigDir(configDir)

	categories, _ := cmd.Flags().GetString("categories")
	var data string
	if len(args) == 1 {
		if data, err = tui.ReadDataFile(args[0]); err != nil {
			return fmt.Errorf("reading data file: %w", err)
		}
	}
	if data != "" || categories != "" {
		app.SetInput(data, categories)
	}

	log.Info("starting tui",
		"config_dir", configDir,
		"log", filepath.Join(configDir, logFileName),
		"clipboard", clipboard.Available(),
		"image_clipboard", clipboard.ImageAvailable(),
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
