package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"learnflow-be/internal/dto"
	"learnflow-be/internal/entity"
	"learnflow-be/pkg/notesync"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newNotesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}

	cmd.AddCommand(newNotesListCommand(ctx))
	cmd.AddCommand(newNotesCreateCommand(ctx))
	cmd.AddCommand(newNotesDeleteCommand(ctx))
	cmd.AddCommand(newRetrySummaryCommand(ctx))
	cmd.AddCommand(newRetryQACommand(ctx))
	return cmd
}

func parseIDArg(args []string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(args[0]))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid note id %q", args[0])
	}
	return id, nil
}

func newNotesListCommand(ctx *commandContext) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes in a category, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryId, err := uuid.Parse(category)
			if err != nil {
				return errors.New("--category must be a category id")
			}
			c, err := ctx.authedClient()
			if err != nil {
				return err
			}
			notes, err := c.ListNotes(cmd.Context(), categoryId)
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes in this category")
				return nil
			}
			for _, n := range notes {
				printNote(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category id")
	return cmd
}

func newNotesCreateCommand(ctx *commandContext) *cobra.Command {
	var category string
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note from a file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryId, err := uuid.Parse(category)
			if err != nil {
				return errors.New("--category must be a category id")
			}

			var raw []byte
			if file == "" || file == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("read note content: %w", err)
			}

			c, err := ctx.authedClient()
			if err != nil {
				return err
			}
			note, err := c.CreateNote(cmd.Context(), categoryId, strings.TrimSpace(string(raw)))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Note saved. Generating summary..."))
			printNote(cmd.OutOrStdout(), *note)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category id")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read content from file (default stdin)")
	return cmd
}

func newNotesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note and its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args)
			if err != nil {
				return err
			}
			c, err := ctx.authedClient()
			if err != nil {
				return err
			}
			if err := c.DeleteNote(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", id)
			return nil
		},
	}
}

func newRetrySummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry-summary <id>",
		Short: "Generate the summary again and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args)
			if err != nil {
				return err
			}
			c, err := ctx.authedClient()
			if err != nil {
				return err
			}
			res, err := c.Summarize(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Note summary generated successfully"))
			fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
			return nil
		},
	}
}

func newRetryQACommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry-qa <id>",
		Short: "Generate study questions again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args)
			if err != nil {
				return err
			}
			c, err := ctx.authedClient()
			if err != nil {
				return err
			}
			res, err := c.GenerateQA(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("%s", res.Message))
			return nil
		},
	}
}

func printNote(out io.Writer, n dto.NoteResponse) {
	preview := []rune(strings.ReplaceAll(n.Content, "\n", " "))
	if len(preview) > 60 {
		preview = append(preview[:60], '…')
	}
	fmt.Fprintf(out, "%s  %s\n", color.CyanString(n.Id.String()), string(preview))
	fmt.Fprintf(out, "  summary:   %s\n", renderStatus(notesync.Describe(entity.JobSummary, n.SummaryStatus, n.SummaryErrorMessage)))
	fmt.Fprintf(out, "  questions: %s\n", renderStatus(notesync.Describe(entity.JobQA, n.QAStatus, n.QAErrorMessage)))
	if n.SummaryStatus == string(entity.SummaryStatusCompleted) && n.Summary != nil {
		fmt.Fprintf(out, "  %s\n", *n.Summary)
	}
}

func renderStatus(v notesync.StatusView) string {
	text := v.Label
	if v.Detail != "" {
		text += " - " + v.Detail
	}
	switch {
	case v.Ready:
		return color.GreenString(text)
	case v.Busy:
		return color.YellowString(text)
	case v.Label == "Failed":
		return color.RedString(text)
	default:
		return text
	}
}
