package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastygo/smarttask/domain"
	assistantUC "github.com/fastygo/smarttask/usecase/assistant"
	"github.com/fastygo/smarttask/usecase/organizer"
)

func newAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "add <text...>",
		Short:   "Add a task from a line of text",
		Example: `  smarttask add Email Alex tomorrow 3pm #work !high`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := c.tasks.Ingest(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added %s\n", formatTask(created))
			return nil
		},
	}
}

func newParseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text...>",
		Short: "Show how a line would be parsed without saving it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.tasks.Preview(cmd.Context(), strings.Join(args, " "))
			d := res.Draft
			fmt.Fprintf(c.out, "title:    %s\n", d.Title)
			fmt.Fprintf(c.out, "due:      %s\n", formatDue(d.Due))
			fmt.Fprintf(c.out, "priority: %s", d.Priority)
			if res.Explicit {
				fmt.Fprint(c.out, " (explicit)")
			}
			fmt.Fprintln(c.out)
			fmt.Fprintf(c.out, "tags:     %s\n", formatTags(d.Tags))
			if d.Project != "" {
				fmt.Fprintf(c.out, "project:  %s\n", d.Project)
			}
			if res.DateMatch != nil {
				fmt.Fprintf(c.out, "matched:  %q\n", res.DateMatch.Text)
			}
			return nil
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	var criteria organizer.Criteria
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := c.tasks.List(criteria)
			if len(tasks) == 0 {
				fmt.Fprintln(c.out, "No tasks.")
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintln(c.out, formatTask(t))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&criteria.ShowDone, "all", "a", false, "include completed tasks")
	cmd.Flags().StringVar(&criteria.Tag, "tag", "", "only tasks with this tag")
	cmd.Flags().StringVar(&criteria.Project, "project", "", "only tasks in this project")
	cmd.Flags().StringVarP(&criteria.Search, "search", "s", "", "case-insensitive text search")
	return cmd
}

func newBoardCmd(c *cli) *cobra.Command {
	var criteria organizer.Criteria
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show tasks grouped into today, week, later and done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board := c.tasks.Board(criteria)
			for _, bucket := range domain.Buckets {
				column := board.Column(bucket)
				fmt.Fprintf(c.out, "== %s (%d)\n", strings.ToUpper(string(bucket)), len(column))
				for _, t := range column {
					fmt.Fprintf(c.out, "  %s\n", formatTask(t))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&criteria.Tag, "tag", "", "only tasks with this tag")
	cmd.Flags().StringVar(&criteria.Project, "project", "", "only tasks in this project")
	cmd.Flags().StringVarP(&criteria.Search, "search", "s", "", "case-insensitive text search")
	return cmd
}

func newDoneCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.tasks.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, formatTask(t))
			return nil
		},
	}
}

func newBumpCmd(c *cli) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "bump <id>",
		Short: "Raise a task's priority one step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := 1
			if down {
				direction = -1
			}
			t, err := c.tasks.Bump(cmd.Context(), args[0], direction)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, formatTask(t))
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "lower the priority instead")
	return cmd
}

func newMoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "move <id> <today|week|later|done>",
		Short:     "Reschedule a task into a board column",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"today", "week", "later", "done"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.tasks.Move(cmd.Context(), args[0], domain.Bucket(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, formatTask(t))
			return nil
		},
	}
}

func newRemoveCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.tasks.Get(args[0])
			if err != nil {
				return err
			}
			if !yes && !c.confirm(fmt.Sprintf("Delete %q?", t.Title)) {
				fmt.Fprintln(c.out, "Cancelled.")
				return nil
			}
			if _, err := c.tasks.Delete(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s\n", shortID(t.ID))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace all tasks with an exported JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(c.in)
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			n, err := c.tasks.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Imported %d tasks\n", n)
			return nil
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all tasks as JSON to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.tasks.Export()
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				_, err = fmt.Fprintln(c.out, string(data))
				return err
			}
			return os.WriteFile(args[0], append(data, '\n'), 0o644)
		},
	}
}

func newSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Ask the assistant for a plan for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.out, c.assistant.SummarizeDay(cmd.Context(), c.tasks.Snapshot().Tasks, c.tasks.Now()))
			return nil
		},
	}
}

func newBreakdownCmd(c *cli) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "breakdown <id>",
		Short: "Ask the assistant to split a task into subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.tasks.Get(args[0])
			if err != nil {
				return err
			}
			text := c.assistant.BreakDown(cmd.Context(), t)
			fmt.Fprintln(c.out, text)
			if !apply {
				return nil
			}
			steps := assistantUC.ParseSteps(text)
			if len(steps) == 0 {
				fmt.Fprintln(c.out, "No subtasks to add.")
				return nil
			}
			updated, err := c.tasks.AddSubtasks(cmd.Context(), t.ID, steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added %d subtasks to %s\n", len(steps), shortID(updated.ID))
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "attach the suggestions as subtasks")
	return cmd
}

func (c *cli) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(c.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
