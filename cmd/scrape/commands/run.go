package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"quiz-scraper/internal/app"
	"quiz-scraper/internal/config"
	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/logger"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runTitle string
	runBatch string
)

func init() {
	runCmd.Flags().StringVar(&runTitle, "title", "", "Title of the new quiz set.")
	runCmd.Flags().StringVar(&runBatch, "batch", "", "Batch file: a JSON array of entries, or an object with title and urls. Use - for stdin.")
	_ = runCmd.MarkFlagRequired("batch")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run --batch <batch.json> [--title <title>]",
	Short: "Runs one scrape batch and prints the per-unit report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, entries, err := readBatch(cmd.InOrStdin(), runBatch)
		if err != nil {
			return err
		}
		if runTitle != "" {
			title = runTitle
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logger.Initialize(cfg.Logger); err != nil {
			return err
		}
		defer logger.Sync()

		application, err := app.New(cmd.Context(), cfg, logger.Get())
		if err != nil {
			return err
		}
		defer application.Close()

		result, runErr := application.Scrape.Run(cmd.Context(), title, entries)
		if result != nil {
			renderReport(cmd.OutOrStdout(), result)
		}
		if runErr != nil {
			logger.Get().Error("Scrape batch did not finish", zap.Error(runErr))
			return runErr
		}
		return nil
	},
}

type batchFile struct {
	Title string `json:"title"`
	URLs  []any  `json:"urls"`
}

// readBatch accepts the same shapes the API does: a bare entry list or the
// request body of POST /api/startScraping.
func readBatch(stdin io.Reader, path string) (string, []any, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", nil, fmt.Errorf("read batch %s: %w", path, err)
	}
	return parseBatch(raw)
}

func parseBatch(raw []byte) (string, []any, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var entries []any
		if err := json.Unmarshal(raw, &entries); err != nil {
			return "", nil, fmt.Errorf("parse batch: %w", err)
		}
		return "", entries, nil
	}

	var file batchFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return "", nil, fmt.Errorf("parse batch: %w", err)
	}
	if len(file.URLs) == 0 {
		return "", nil, fmt.Errorf("parse batch: no urls")
	}
	return file.Title, file.URLs, nil
}

func renderReport(w io.Writer, result *domain.BatchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Quiz set %s", result.QuizSetID)
	t.AppendHeader(table.Row{"#", "Source", "URL", "Page", "Status", "Questions", "Error"})
	for i, u := range result.Units {
		page := ""
		if u.Page > 0 {
			page = fmt.Sprint(u.Page)
		}
		t.AppendRow(table.Row{i + 1, u.Kind, u.URL, page, u.Status, u.Questions, u.Error})
	}
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d failed", len(result.Failed())), result.QuestionsPersisted, ""})
	t.Render()
}
