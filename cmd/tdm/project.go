package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tdm-calculator/internal/cli"
	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/rules"
	"github.com/Veraticus/tdm-calculator/internal/session"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage TDM projects",
		Long:  `Create, inspect, edit and delete saved TDM calculations.`,
	}

	cmd.AddCommand(projectNewCmd())
	cmd.AddCommand(projectListCmd())
	cmd.AddCommand(projectShowCmd())
	cmd.AddCommand(projectSetCmd())
	cmd.AddCommand(projectCommentCmd())
	cmd.AddCommand(projectPackageCmd())
	cmd.AddCommand(projectUncheckAllCmd())
	cmd.AddCommand(projectRecalcAllCmd())
	cmd.AddCommand(projectDeleteCmd())

	return cmd
}

func projectNewCmd() *cobra.Command {
	var name, address string

	cmd := &cobra.Command{
		Use:   "new [CODE=VALUE...]",
		Short: "Create a project",
		Long: `Create a project owned by the configured account. Additional inputs may
be given as CODE=VALUE pairs, for example UNITS_HABIT=120.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assignments, err := parseAssignments(args)
			if err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.newSession()
			if err := sess.InitializeStrategies(); err != nil {
				return err
			}
			all := append([]assignment{
				{code: model.CodeProjectName, value: name},
				{code: model.CodeProjectAddress, value: address},
			}, assignments...)
			if err := applyAssignments(sess, all); err != nil {
				return err
			}

			if err := sess.Save(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Created project %d", sess.ProjectID())))
			printInvalid(cmd, sess.Repository())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&address, "address", "", "project address")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func projectListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  `List the projects of the configured account, most recently saved first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			loginID := a.cfg.Account.ID
			if all {
				if !a.cfg.Account.IsAdmin {
					return common.NewUserError("Only administrators can list every project.", common.ErrReadOnly)
				}
				loginID = 0
			}

			projects, err := a.store.ListProjects(ctx, loginID)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No projects found. Use 'tdm project new' to create one."))
				return nil
			}
			fmt.Fprintln(out, cli.RenderProjects(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list projects of every account (admin only)")

	return cmd
}

func projectShowCmd() *cobra.Command {
	var showRules bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show the calculation summary of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.loadSession(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.RenderSummary(sess.Summary(a.cfg.ResultCodes)))
			if p := sess.Project(); p != nil {
				fmt.Fprintln(out, cli.SubtleStyle.Render("Last saved "+p.DateModified.Local().Format("2006-01-02 15:04")))
			}
			if sess.ReadOnly() {
				fmt.Fprintln(out, cli.FormatInfo("You can view this project but not change it."))
			}
			if showRules {
				displayed := sess.Repository().Filter(func(r *model.Rule) bool { return r.Display })
				fmt.Fprintln(out, cli.RenderRules(displayed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showRules, "rules", false, "also list every displayed rule")

	return cmd
}

func projectSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <project-id> CODE=VALUE...",
		Short: "Change project inputs",
		Long: `Set one or more inputs of a project and save it. An empty value clears
the input, for example PARK_SPACES=.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignments, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			return editProject(cmd, args[0], func(sess *session.Session) error {
				return applyAssignments(sess, assignments)
			})
		},
	}
}

func projectCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <project-id> <CODE> <text>",
		Short: "Set the comment of a project input",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(cmd, args[0], func(sess *session.Session) error {
				return sess.SetComment(model.RuleCode(args[1]), args[2])
			})
		},
	}
}

func projectPackageCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "package <project-id> <residential|employment>",
		Short: "Select or clear a TDM package",
		Long: `Select a package, which checks every strategy it contains, or clear it
with --off.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(cmd, args[0], func(sess *session.Session) error {
				return sess.SelectPackage(args[1], !off)
			})
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "clear the package instead of selecting it")

	return cmd
}

func projectUncheckAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uncheck-all <project-id>",
		Short: "Clear every strategy of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(cmd, args[0], func(sess *session.Session) error {
				return sess.UncheckAll()
			})
		},
	}
}

// editProject loads a project, applies fn, saves it and prints the points.
func editProject(cmd *cobra.Command, rawID string, fn func(*session.Session) error) error {
	ctx := cmd.Context()

	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.loadSession(ctx, id)
	if err != nil {
		return err
	}
	if sess.ReadOnly() {
		return common.NewUserError("You can view this project but not change it.", common.ErrReadOnly)
	}
	if err := fn(sess); err != nil {
		return err
	}
	if err := sess.Save(ctx); err != nil {
		return err
	}

	s := sess.Summary(a.cfg.ResultCodes)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved project %d: earned %d of %d points", id, s.EarnedPoints, s.TargetPoints)))
	printInvalid(cmd, sess.Repository())
	return nil
}

// printInvalid lists displayed rules that still fail validation.
func printInvalid(cmd *cobra.Command, repo *rules.Repository) {
	invalid := repo.Filter(rules.Invalid)
	if len(invalid) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d inputs need attention:", len(invalid))))
	for _, r := range invalid {
		for _, e := range r.ValidationErrors {
			fmt.Fprintln(out, "  "+cli.ValidationStyle.Render(e.Message))
		}
	}
}

func projectRecalcAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc-all",
		Short: "Rebuild and resave every project against the current catalog",
		Long: `Load every project you can edit, rebuild it from the current rule
catalog and save it again. Inputs for rules the catalog no longer has are
dropped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.Account.SignedIn() {
				return common.NewUserError("Sign in to recalculate projects.", common.ErrNotSignedIn)
			}
			loginID := a.cfg.Account.ID
			if a.cfg.Account.IsAdmin {
				loginID = 0
			}
			projects, err := a.store.ListProjects(ctx, loginID)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No projects to recalculate."))
				return nil
			}

			batch := cli.NewBatch(cmd.ErrOrStderr(), len(projects), "Recalculating")
			for _, p := range projects {
				if ctx.Err() != nil {
					break
				}
				err := recalcProject(ctx, a, p.ID)
				if err != nil {
					slog.Warn("failed to recalculate project", "project_id", p.ID, "error", err)
				}
				batch.Step(err)
			}
			batch.Finish(ctx.Err() != nil)

			if _, failed := batch.Done(); failed > 0 {
				return fmt.Errorf("%d projects could not be recalculated", failed)
			}
			return nil
		},
	}
}

func recalcProject(ctx context.Context, a *app, id int) error {
	sess, err := a.loadSession(ctx, id)
	if err != nil {
		return err
	}
	return sess.Save(ctx)
}

func projectDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			project, err := a.store.GetProject(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}
			if !a.cfg.Account.CanEdit(project.LoginID) {
				return common.NewUserError("You can only delete your own projects.", common.ErrReadOnly)
			}

			out := cmd.OutOrStdout()
			if !force {
				question := fmt.Sprintf("Delete project %d (%s)?", project.ID, project.Name)
				ok, err := cli.Confirm(ctx, cmd.InOrStdin(), out, question)
				if errors.Is(err, cli.ErrInputCancelled) {
					return nil
				}
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Operation canceled.")
					return nil
				}
			}

			if err := a.store.DeleteProject(ctx, id); err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted project %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
