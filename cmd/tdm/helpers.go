package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/tdm-calculator/internal/calc"
	"github.com/Veraticus/tdm-calculator/internal/catalog"
	"github.com/Veraticus/tdm-calculator/internal/config"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/service"
	"github.com/Veraticus/tdm-calculator/internal/session"
	"github.com/Veraticus/tdm-calculator/internal/storage"
)

// app bundles what most commands need.
type app struct {
	cfg     *config.Config
	store   service.Storage
	catalog *catalog.Catalog
	calc    *calc.Calculator
}

// openApp loads the configuration and catalog and opens storage.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	store, err := initStorage(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		store:   store,
		catalog: cat,
		calc:    calc.New(cat),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

func (a *app) newSession() *session.Session {
	return session.New(a.store, a.calc, &a.cfg.Account, a.cfg.Retry)
}

// loadSession opens a session on a stored project.
func (a *app) loadSession(ctx context.Context, id int) (*session.Session, error) {
	sess := a.newSession()
	if err := sess.Load(ctx, id); err != nil {
		return nil, err
	}
	return sess, nil
}

// initStorage opens the database at dbPath, already expanded by config.Load,
// and brings its schema up to date.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("storage ready", "database", dbPath)
	return store, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// assignment is one CODE=VALUE argument.
type assignment struct {
	code  model.RuleCode
	value string
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		code, value, ok := strings.Cut(arg, "=")
		code = strings.ToUpper(strings.TrimSpace(code))
		if !ok || code == "" {
			return nil, fmt.Errorf("expected CODE=VALUE, got %q", arg)
		}
		out = append(out, assignment{code: model.RuleCode(code), value: value})
	}
	return out, nil
}

func applyAssignments(sess *session.Session, assignments []assignment) error {
	for _, a := range assignments {
		if err := sess.Edit(a.code, a.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", a.code, err)
		}
	}
	return nil
}
