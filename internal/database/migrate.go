package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// Execer is satisfied by *sql.DB, *sqlx.DB and their transactions.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RunMigrations executes every *.up.sql file in dir in name order.
func RunMigrations(ctx context.Context, db Execer, dir string, logger *zap.Logger) error {
	return runFiles(ctx, db, dir, upSuffix, false, logger)
}

// RollbackMigrations executes every *.down.sql file in dir in reverse name order.
func RollbackMigrations(ctx context.Context, db Execer, dir string, logger *zap.Logger) error {
	return runFiles(ctx, db, dir, downSuffix, true, logger)
}

func runFiles(ctx context.Context, db Execer, dir, suffix string, reverse bool, logger *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for i, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute statement %d of migration %s: %w", i+1, name, err)
			}
		}
		logger.Info("Executed migration", zap.String("file", name))
	}

	logger.Info("Migrations completed successfully", zap.Int("files", len(names)))
	return nil
}

// SplitStatements breaks a script into single statements, since the Oracle
// driver executes one statement per call. Statements end with ';' and "--"
// comment lines are dropped.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(current.String()), ";")
			stmts = append(stmts, strings.TrimSpace(stmt))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
