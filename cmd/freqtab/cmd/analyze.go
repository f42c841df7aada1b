package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/f3rmion/freqtab/internal/chart"
	"github.com/f3rmion/freqtab/internal/clipboard"
	"github.com/f3rmion/freqtab/internal/export"
	"github.com/f3rmion/freqtab/internal/freq"
	"github.com/f3rmion/freqtab/internal/logging"
	"github.com/f3rmion/freqtab/internal/tui"
	"github.com/f3rmion/freqtab/internal/tui/views"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze values without the TUI",
	Long: `Count values per category and print the result table.

Values come from --data, --file or standard input, separated by spaces,
commas or newlines. Categories are a comma-separated list.

Examples:
  freqtab analyze -d "1 2 3 10 apple" -c "1-3,<5,Apple"
  freqtab analyze -f ages.txt -c "<18,18-64,≥65" --bar --pie
  cat fruit.txt | freqtab analyze -c apple,pear -o csv
  freqtab analyze -f scores.txt -c "0-49,50-100" --copy table,bar`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var (
	analyzeData       string
	analyzeFile       string
	analyzeCategories string
	analyzeOutput     string
	analyzeCopy       []string
	analyzeBar        bool
	analyzePie        bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeData, "data", "d", "", "values to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read values from a file")
	analyzeCmd.Flags().StringVarP(&analyzeCategories, "categories", "c", "", "comma-separated category list")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "table", "output: table, html, markdown, csv, tsv, json, yaml")
	analyzeCmd.Flags().StringSliceVar(&analyzeCopy, "copy", nil, "copy to the clipboard: table, bar, pie")
	analyzeCmd.Flags().BoolVar(&analyzeBar, "bar", false, "print the bar chart")
	analyzeCmd.Flags().BoolVar(&analyzePie, "pie", false, "print the pie chart")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	setupLogging(cfg, cmd.ErrOrStderr())
	log := logging.ForComponent("analyze")

	data, err := readData(cmd.InOrStdin())
	if err != nil {
		return err
	}

	rs, err := freq.AnalyzeInput(data, analyzeCategories)
	if err != nil {
		if errors.Is(err, freq.ErrNoData) || errors.Is(err, freq.ErrNoCategories) || errors.Is(err, freq.ErrNoTokens) {
			return fmt.Errorf("please provide data and categories: %w", err)
		}
		return err
	}
	log.Debug("analyzed", "categories", len(rs)-1, "total", rs.Total().Frequency)

	out := cmd.OutOrStdout()
	if analyzeOutput == "table" {
		fmt.Fprintln(out, views.RenderTable(rs))
	} else {
		format, err := export.ParseFormat(analyzeOutput)
		if err != nil {
			return err
		}
		text, err := export.Table(rs, format)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
	}

	var charts chart.Handles
	if analyzeBar || analyzePie || len(analyzeCopy) > 0 {
		opts, err := cfg.ChartOptions()
		if err != nil {
			log.Warn("using fallback chart font", "err", err)
		}
		charts.Redraw(freq.ChartData(rs), opts)
		defer charts.Destroy()
	}

	if analyzeBar {
		text, err := charts.Bar.Text(80)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n", text)
	}
	if analyzePie {
		text, err := charts.Pie.Text(80)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n", text)
	}

	return copyTargets(clipboard.System{}, analyzeCopy, rs, cfg.Format(), &charts, cmd.ErrOrStderr())
}

// readData picks --data, then --file, then piped standard input.
func readData(stdin io.Reader) (string, error) {
	if analyzeData != "" {
		return analyzeData, nil
	}
	if analyzeFile != "" {
		data, err := tui.ReadDataFile(analyzeFile)
		if err != nil {
			return "", fmt.Errorf("reading data file: %w", err)
		}
		return data, nil
	}

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			// Interactive terminal, nothing piped
			return "", nil
		}
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading standard input: %w", err)
	}
	return string(raw), nil
}

// copyTargets copies each requested target and reports the outcome on w.
// All targets are attempted; the first failure is returned.
func copyTargets(clip clipboard.Writer, targets []string, rs freq.ResultSet, format export.Format, charts *chart.Handles, w io.Writer) error {
	var firstErr error
	for _, target := range targets {
		var err error
		var label string

		switch strings.ToLower(strings.TrimSpace(target)) {
		case "table":
			label = "Table"
			var text string
			if text, err = export.Table(rs, format); err == nil {
				err = clip.WriteText(text)
			}
		case "bar":
			label = "Bar chart"
			err = copyChart(clip, charts.Bar)
		case "pie":
			label = "Pie chart"
			err = copyChart(clip, charts.Pie)
		default:
			label = target
			err = fmt.Errorf("unknown copy target %q (want table, bar or pie)", target)
		}

		if err != nil {
			fmt.Fprintf(w, "%s copy failed: %v\n", label, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(w, "%s copied!\n", label)
	}
	return firstErr
}

func copyChart(clip clipboard.Writer, c *chart.Chart) error {
	if c == nil {
		return errors.New("chart not drawn")
	}
	png, err := c.PNG()
	if err != nil {
		return err
	}
	return clip.WriteImage(png)
}
