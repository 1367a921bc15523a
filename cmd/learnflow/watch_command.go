package main

import (
	"errors"
	"fmt"
	"io"

	"learnflow-be/internal/dto"
	"learnflow-be/pkg/client"
	"learnflow-be/pkg/notesync"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live status updates for a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryId, err := uuid.Parse(category)
			if err != nil {
				return errors.New("--category must be a category id")
			}
			c, err := ctx.authedClient()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			board := notesync.NewBoard(nil)

			refresh := func() {
				notes, err := c.ListNotes(cmd.Context(), categoryId)
				if err != nil {
					fmt.Fprintln(out, color.RedString("Failed to load notes: %v", err))
					return
				}
				board.Replace(notes)
				fmt.Fprintf(out, "Watching %d notes\n", len(notes))
			}

			events := client.StreamEvents{
				// Updates missed while disconnected are recovered by refetching.
				OnConnect: refresh,
				OnDisconnect: func(err error) {
					fmt.Fprintln(out, color.YellowString("Disconnected (%v), reconnecting...", err))
				},
			}

			return c.Watch(cmd.Context(), func(note dto.NoteResponse) {
				if note.CategoryId == nil || *note.CategoryId != categoryId {
					return
				}
				for _, toast := range board.Apply(note) {
					printToast(out, toast)
				}
			}, events, client.DefaultBackoff)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category id")
	return cmd
}

func printToast(out io.Writer, t notesync.Toast) {
	msg := fmt.Sprintf("[%s] %s", t.NoteId, t.Message)
	if t.Level == notesync.ToastError {
		fmt.Fprintln(out, color.RedString("%s", msg))
		return
	}
	fmt.Fprintln(out, color.GreenString("%s", msg))
}
