package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/freqtab/internal/chart"
	"github.com/f3rmion/freqtab/internal/clipboard"
	"github.com/f3rmion/freqtab/internal/config"
	"github.com/f3rmion/freqtab/internal/export"
	"github.com/f3rmion/freqtab/internal/freq"
	"github.com/f3rmion/freqtab/internal/tui"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	// Flag variables outlive a single Execute.
	analyzeData, analyzeFile, analyzeCategories = "", "", ""
	analyzeOutput, analyzeCopy = "table", nil
	analyzeBar, analyzePie = false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--config", t.TempDir()))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	out, _, err := run(t, "", "analyze", "-d", "1 2 3 10 apple", "-c", "1-3,<5,Apple")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"1-3", "60.00%", "20.00%", "Total", "100%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommandFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"csv", "Category,Frequency,Percentage\na,2,66.67%\nTotal,2,100%\n"},
		{"tsv", "Category\tFrequency\tPercentage\na\t2\t66.67%\nTotal\t2\t100%\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, _, err := run(t, "", "analyze", "-d", "a,b,A", "-c", "a", "-o", tt.format)
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}
			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestAnalyzeCommandStdin(t *testing.T) {
	out, _, err := run(t, "5\n5.0\n05\nfive\n", "analyze", "-c", "5", "-o", "csv")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "5,3,75.00%") {
		t.Errorf("output = %q", out)
	}
}

func TestAnalyzeCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("1 2\n3 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "", "analyze", "-f", path, "-c", "≥3", "-o", "csv")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "≥3,2,50.00%") {
		t.Errorf("output = %q", out)
	}
}

func TestAnalyzeCommandFileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Truncate(path, tui.MaxDataFileSize+1); err != nil {
		t.Fatal(err)
	}

	_, _, err := run(t, "", "analyze", "-f", path, "-c", "1")
	if err == nil || !strings.Contains(err.Error(), "reading data file: huge.txt is larger than") {
		t.Errorf("err = %v", err)
	}
}

func TestAnalyzeCommandCharts(t *testing.T) {
	out, _, err := run(t, "", "analyze", "-d", "a a b", "-c", "a,b", "--bar", "--pie")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "█") {
		t.Error("bar chart not printed")
	}
	if !strings.Contains(out, "■ a 66.67%") {
		t.Errorf("pie legend not printed:\n%s", out)
	}
}

func TestAnalyzeCommandMissingInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no data", []string{"-c", "a"}, freq.ErrNoData},
		{"no categories", []string{"-d", "a b"}, freq.ErrNoCategories},
		{"separators only", []string{"-d", " , ", "-c", "a"}, freq.ErrNoTokens},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", append([]string{"analyze"}, tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAnalyzeCommandUnknownOutput(t *testing.T) {
	_, _, err := run(t, "", "analyze", "-d", "a", "-c", "a", "-o", "pdf")
	if !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestCopyTargets(t *testing.T) {
	rs, err := freq.AnalyzeInput("1 2 3", "1-2,3")
	if err != nil {
		t.Fatal(err)
	}
	var charts chart.Handles
	charts.Redraw(freq.ChartData(rs), chart.Options{Width: 120, Height: 80})

	mem := &clipboard.Memory{}
	var report bytes.Buffer
	if err := copyTargets(mem, []string{"table", "pie"}, rs, export.FormatMarkdown, &charts, &report); err != nil {
		t.Fatalf("copyTargets: %v", err)
	}

	if !strings.HasPrefix(mem.Text, "| Category") {
		t.Errorf("clipboard text = %q, want markdown", mem.Text)
	}
	if !bytes.HasPrefix(mem.Image, []byte("\x89PNG")) {
		t.Error("clipboard image is not a PNG")
	}
	if got := report.String(); got != "Table copied!\nPie chart copied!\n" {
		t.Errorf("report = %q", got)
	}
}

func TestCopyTargetsContinuesAfterFailure(t *testing.T) {
	rs, err := freq.AnalyzeInput("a", "a")
	if err != nil {
		t.Fatal(err)
	}
	var charts chart.Handles
	charts.Redraw(freq.ChartData(rs), chart.Options{Width: 120, Height: 80})

	mem := &clipboard.Memory{}
	var report bytes.Buffer
	err = copyTargets(mem, []string{"nope", "table"}, rs, export.FormatCSV, &charts, &report)
	if err == nil {
		t.Fatal("expected error for unknown target")
	}
	if mem.Text == "" {
		t.Error("table not copied after the failed target")
	}
	if !strings.Contains(report.String(), "nope copy failed") {
		t.Errorf("report = %q", report.String())
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"init", "--config", dir})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if cfg.TableFormat != config.Default().TableFormat {
		t.Errorf("table format = %q", cfg.TableFormat)
	}

	rootCmd.SetArgs([]string{"init", "--config", dir})
	if err := rootCmd.Execute(); err == nil {
		t.Error("second init without --force should fail")
	}

	rootCmd.SetArgs([]string{"init", "--config", dir, "--force"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("init --force: %v", err)
	}
	initCmd.Flags().Set("force", "false")
}
