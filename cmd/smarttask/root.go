package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fastygo/smarttask/internal/app"
	"github.com/fastygo/smarttask/internal/config"
	"github.com/fastygo/smarttask/pkg/logger"
	assistantUC "github.com/fastygo/smarttask/usecase/assistant"
	taskUC "github.com/fastygo/smarttask/usecase/task"
)

// cli holds what every command needs. Tests fill tasks and assistant
// directly; otherwise they are bootstrapped from the environment.
type cli struct {
	tasks     *taskUC.UseCase
	assistant *assistantUC.UseCase
	out       io.Writer
	in        io.Reader

	app      *app.App
	logLevel string
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "smarttask",
		Short: "Capture tasks in plain language and organize them",
		Long: `smarttask turns lines like "Email Alex tomorrow 3pm #work !high" into tasks
with a title, due time, tags, project and priority, then lists them or lays
them out on a today / week / later / done board.

Storage and assistant settings come from the environment (see .env).`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}
	root.SetOut(c.out)
	root.SetErr(c.out)
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override LOG_LEVEL")

	root.AddCommand(
		newAddCmd(c),
		newParseCmd(c),
		newListCmd(c),
		newBoardCmd(c),
		newDoneCmd(c),
		newBumpCmd(c),
		newMoveCmd(c),
		newRemoveCmd(c),
		newImportCmd(c),
		newExportCmd(c),
		newSummaryCmd(c),
		newBreakdownCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.tasks != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.Logger.Level
	if c.logLevel != "" {
		level = c.logLevel
	} else if level == "info" {
		level = "warn"
	}
	log, err := logger.New(logger.Config{Level: level, Encoding: "console", Stderr: true})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Bootstrap(ctx, cfg, log, app.Options{})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	c.app = a
	c.tasks = a.Tasks
	c.assistant = a.Assistant
	return nil
}

func (c *cli) teardown(cmd *cobra.Command, _ []string) error {
	if c.app == nil {
		return nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer c.app.Logger.Sync()
	return c.app.Close(ctx)
}
