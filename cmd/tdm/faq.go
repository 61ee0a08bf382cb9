package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tdm-calculator/internal/cli"
	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/faq"
)

func faqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Read and edit the FAQ",
		Long: `List the frequently asked questions. Administrators can add, edit,
reorder and delete categories and questions.`,
	}

	cmd.AddCommand(faqListCmd())
	cmd.AddCommand(faqAddCategoryCmd())
	cmd.AddCommand(faqRenameCategoryCmd())
	cmd.AddCommand(faqAddCmd())
	cmd.AddCommand(faqEditCmd())
	cmd.AddCommand(faqMoveCmd())
	cmd.AddCommand(faqDeleteCmd())

	return cmd
}

func faqListCmd() *cobra.Command {
	var (
		expand bool
		ids    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List FAQ categories and questions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			editor := faq.NewEditor(faq.NewService(a.store))
			if err := editor.Reload(ctx); err != nil {
				return err
			}
			if expand {
				editor.ToggleExpandAll()
			}

			board := editor.Board()
			out := cmd.OutOrStdout()
			if board.Len() == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No FAQ entries yet."))
				return nil
			}
			fmt.Fprint(out, cli.RenderBoard(board, ids))
			return nil
		},
	}

	cmd.Flags().BoolVar(&expand, "expand", false, "show every answer")
	cmd.Flags().BoolVar(&ids, "ids", false, "show category and question ids")

	return cmd
}

func faqAddCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-category <name>",
		Short: "Add a FAQ category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editFaqs(cmd, func(b faq.Board) (faq.Board, error) {
				next, _ := b.AddCategory(args[0])
				return next, nil
			})
		},
	}
}

func faqRenameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-category <category-id> <name>",
		Short: "Rename a FAQ category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return editFaqs(cmd, func(b faq.Board) (faq.Board, error) {
				return b.RenameCategory(categoryID, args[1])
			})
		},
	}
}

func faqAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category-id> <question> <answer>",
		Short: "Add a question to a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return editFaqs(cmd, func(b faq.Board) (faq.Board, error) {
				next, _, err := b.AddFaq(categoryID, args[1], args[2])
				return next, err
			})
		},
	}
}

func faqEditCmd() *cobra.Command {
	var question, answer string

	cmd := &cobra.Command{
		Use:   "edit <category-id> <faq-id>",
		Short: "Change a question or its answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID(args[0])
			if err != nil {
				return err
			}
			faqID, err := parseID(args[1])
			if err != nil {
				return err
			}
			return editFaqs(cmd, func(b faq.Board) (faq.Board, error) {
				c, ok := b.Category(categoryID)
				if !ok {
					return b, fmt.Errorf("%w: %d", faq.ErrCategoryNotFound, categoryID)
				}
				for _, f := range c.Faqs {
					if f.ID != faqID {
						continue
					}
					q, ans := f.Question, f.Answer
					if cmd.Flags().Changed("question") {
						q = question
					}
					if cmd.Flags().Changed("answer") {
						ans = answer
					}
					return b.EditFaq(categoryID, faqID, q, ans)
				}
				return b, fmt.Errorf("%w: %d", faq.ErrFaqNotFound, faqID)
			})
		},
	}

	cmd.Flags().StringVar(&question, "question", "", "new question text")
	cmd.Flags().StringVar(&answer, "answer", "", "new answer text")

	return cmd
}

func faqMoveCmd() *cobra.Command {
	var (
		category bool
		toID     int
	)

	cmd := &cobra.Command{
		Use:   "move <category-id> <from-index> <to-index>",
		Short: "Reorder a question or a category",
		Long: `Move the question at from-index of a category to to-index. With
--to-category the question moves into another category. With --category the
indexes refer to categories and category-id is ignored.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[2])
			}

			kind := faq.KindFaq
			if category {
				kind = faq.KindCategory
			}
			dest := faq.Location{CategoryID: categoryID, Index: to}
			if toID != 0 {
				dest.CategoryID = toID
			}

			return editFaqs(cmd, func(b faq.Board) (faq.Board, error) {
				return b.Move(kind, faq.Location{CategoryID: categoryID, Index: from}, &dest)
			})
		},
	}

	cmd.Flags().BoolVar(&category, "category", false, "move a category instead of a question")
	cmd.Flags().IntVar(&toID, "to-category", 0, "destination category id")

	return cmd
}

func faqDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id> [faq-id]",
		Short: "Delete a question, or a whole category",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return editFaqs(cmd, func(b faq.Board) (faq.Board, error) {
					return b.DeleteCategory(categoryID)
				})
			}
			faqID, err := parseID(args[1])
			if err != nil {
				return err
			}
			return editFaqs(cmd, func(b faq.Board) (faq.Board, error) {
				return b.DeleteFaq(categoryID, faqID)
			})
		},
	}
}

// editFaqs loads the board in admin mode, applies fn and saves on leaving
// admin mode.
func editFaqs(cmd *cobra.Command, fn func(faq.Board) (faq.Board, error)) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Account.IsAdmin {
		return common.NewUserError("Only administrators can edit the FAQ.", common.ErrReadOnly)
	}

	editor := faq.NewEditor(faq.NewService(a.store))
	if err := editor.Reload(ctx); err != nil {
		return err
	}
	if err := editor.ToggleAdmin(ctx); err != nil {
		return err
	}
	if err := editor.Apply(fn); err != nil {
		return err
	}
	if err := editor.ToggleAdmin(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess("FAQ saved"))
	fmt.Fprint(out, cli.RenderBoard(editor.Board(), true))
	return nil
}
