package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/rules"
)

// writeConfig writes a config file for a database in dir and returns its path.
func writeConfig(t *testing.T, dir string, accountID int, admin bool) string {
	t.Helper()
	content := fmt.Sprintf(`database:
  path: %s
account:
  id: %d
  admin: %t
retry:
  max_attempts: 1
`, filepath.Join(dir, "tdm.db"), accountID, admin)

	path := filepath.Join(dir, fmt.Sprintf("config-%d.yaml", accountID))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProjectCommands(t *testing.T) {
	dir := t.TempDir()
	owner := writeConfig(t, dir, 5, false)

	out, err := runCLI(t, owner, "", "project", "new",
		"--name", "Exposition Lofts", "--address", "1020 W Exposition Blvd",
		"LAND_USE_RESIDENTIAL=true", "UNITS_HABIT=30", "PARK_SPACES=30")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project 1")

	out, err = runCLI(t, owner, "", "project", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Exposition Lofts")
	assert.Contains(t, out, "Earned 0 / Target 15")
	assert.Contains(t, out, "Last saved")

	out, err = runCLI(t, owner, "", "project", "package", "1", "residential")
	require.NoError(t, err)
	assert.Contains(t, out, "earned 7 of 15 points")

	out, err = runCLI(t, owner, "", "project", "uncheck-all", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "earned 0 of 15 points")

	out, err = runCLI(t, owner, "", "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Exposition Lofts")

	_, err = runCLI(t, owner, "", "project", "set", "1", "NOT_A_RULE=1")
	require.ErrorIs(t, err, rules.ErrUnknownCode)

	_, err = runCLI(t, owner, "", "project", "set", "1", "UNITS_HABIT")
	require.Error(t, err)
}

func TestProjectCommands_OtherAccountIsReadOnly(t *testing.T) {
	dir := t.TempDir()
	owner := writeConfig(t, dir, 5, false)
	other := writeConfig(t, dir, 6, false)

	_, err := runCLI(t, owner, "", "project", "new", "--name", "Exposition Lofts")
	require.NoError(t, err)

	out, err := runCLI(t, other, "", "project", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "You can view this project but not change it.")

	_, err = runCLI(t, other, "", "project", "set", "1", "UNITS_HABIT=10")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	require.ErrorIs(t, err, common.ErrReadOnly)

	_, err = runCLI(t, other, "y\n", "project", "delete", "1")
	require.ErrorIs(t, err, common.ErrReadOnly)

	out, err = runCLI(t, other, "", "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found")
}

func TestProjectDelete_Confirmation(t *testing.T) {
	dir := t.TempDir()
	owner := writeConfig(t, dir, 5, false)

	_, err := runCLI(t, owner, "", "project", "new", "--name", "Exposition Lofts")
	require.NoError(t, err)

	out, err := runCLI(t, owner, "n\n", "project", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Operation canceled.")

	out, err = runCLI(t, owner, "y\n", "project", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted project 1")

	_, err = runCLI(t, owner, "", "project", "show", "1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestProjectRecalcAll(t *testing.T) {
	dir := t.TempDir()
	owner := writeConfig(t, dir, 5, false)

	for _, name := range []string{"Exposition Lofts", "Figueroa Tower"} {
		_, err := runCLI(t, owner, "", "project", "new", "--name", name)
		require.NoError(t, err)
	}

	out, err := runCLI(t, owner, "", "project", "recalc-all")
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 2")
}

func TestFaqCommands(t *testing.T) {
	dir := t.TempDir()
	admin := writeConfig(t, dir, 1, true)
	user := writeConfig(t, dir, 5, false)

	_, err := runCLI(t, user, "", "faq", "add-category", "General")
	require.ErrorIs(t, err, common.ErrReadOnly)

	out, err := runCLI(t, admin, "", "faq", "add-category", "General")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] General")

	out, err = runCLI(t, admin, "", "faq", "add", "1", "What is TDM?", "Transportation Demand Management.")
	require.NoError(t, err)
	assert.Contains(t, out, "0. [1] What is TDM?")

	_, err = runCLI(t, admin, "", "faq", "add", "1", "Who needs a TDM plan?", "Projects of level 1 and above.")
	require.NoError(t, err)

	out, err = runCLI(t, admin, "", "faq", "move", "1", "1", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "0. [2] Who needs a TDM plan?")
	assert.Contains(t, out, "1. [1] What is TDM?")

	out, err = runCLI(t, user, "", "faq", "list", "--expand")
	require.NoError(t, err)
	assert.Contains(t, out, "Transportation Demand Management.")

	out, err = runCLI(t, admin, "", "faq", "edit", "1", "1", "--answer", "A plan to reduce car trips.")
	require.NoError(t, err)
	assert.Contains(t, out, "What is TDM?")

	out, err = runCLI(t, user, "", "faq", "list", "--expand")
	require.NoError(t, err)
	assert.Contains(t, out, "A plan to reduce car trips.")

	_, err = runCLI(t, admin, "", "faq", "delete", "1", "99")
	require.Error(t, err)
}

func TestMigrateStatus(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), 5, false)

	out, err := runCLI(t, cfg, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")

	_, err = runCLI(t, cfg, "", "migrate")
	require.NoError(t, err)

	out, err = runCLI(t, cfg, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 3")
}

func TestCatalogAndVersion(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), 5, false)

	out, err := runCLI(t, cfg, "", "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = runCLI(t, cfg, "", "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "PKG_RESIDENTIAL")

	out, err = runCLI(t, cfg, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tdm dev")
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []assignment
		wantErr bool
	}{
		{
			name: "value",
			args: []string{"UNITS_HABIT=120"},
			want: []assignment{{code: model.CodeUnitsHabitable, value: "120"}},
		},
		{
			name: "lowercase code and empty value",
			args: []string{"park_spaces="},
			want: []assignment{{code: model.CodeParkSpaces, value: ""}},
		},
		{
			name: "value containing equals",
			args: []string{"PROJECT_DESCRIPTION=a=b"},
			want: []assignment{{code: model.CodeProjectDescription, value: "a=b"}},
		},
		{
			name:    "missing equals",
			args:    []string{"UNITS_HABIT"},
			wantErr: true,
		},
		{
			name:    "missing code",
			args:    []string{"=5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestMigrate_ListsPendingAndIsIdempotent(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), 5, false)

	out, err := runCLI(t, cfg, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "FAQ categories and questions")

	out, err = runCLI(t, cfg, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 3 migrations")

	out, err = runCLI(t, cfg, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "already at version 3")
}

func TestEnvironmentOverridesConfig(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), 5, false)
	t.Setenv("TDM_WIZARD_THEME", "solarized")

	_, err := runCLI(t, cfg, "", "migrate", "--status")
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}
