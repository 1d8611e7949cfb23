package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/projection"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/urfave/cli/v3"
)

func taskCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list",
			Usage: "Print tasks",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Case-insensitive substring filter"},
				&cli.StringFlag{Name: "sort", Usage: "default, alphabetical or status", Value: string(projection.SortDefault)},
				&cli.BoolFlag{Name: "json", Usage: "Print the projection as JSON"},
			},
			Action: listTasks,
		},
		{
			Name:      "add",
			Usage:     "Add a task",
			ArgsUsage: "<text...>",
			Action:    addTask,
		},
		{
			Name:      "toggle",
			Usage:     "Flip a task between complete and incomplete",
			ArgsUsage: "<id>",
			Action:    toggleTask,
		},
		{
			Name:      "delete",
			Aliases:   []string{"rm"},
			Usage:     "Delete a task",
			ArgsUsage: "<id>",
			Action:    deleteTask,
		},
		{
			Name:      "edit",
			Usage:     "Replace the text of a task",
			ArgsUsage: "<id> <text...>",
			Action:    editTask,
		},
		{
			Name:      "theme",
			Usage:     "Set the persisted theme",
			ArgsUsage: "<dark|light|toggle>",
			Action:    setTheme,
		},
		{
			Name:   "reset",
			Usage:  "Delete every persisted entry",
			Action: resetStore,
		},
		{
			Name:  "dump",
			Usage: "Print the raw persisted entries",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "prefix", Usage: "Only keys starting with this prefix"},
				&cli.IntFlag{Name: "limit", Usage: "Maximum number of entries"},
				&cli.IntFlag{Name: "offset", Usage: "Entries to skip"},
			},
			Action: dumpEntries,
		},
		{
			Name:  "migrate",
			Usage: "Apply the sqlite schema migrations",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "down", Usage: "Revert the schema instead, dropping all data"},
			},
			Action: migrateSchema,
		},
	}
}

func listTasks(ctx context.Context, cmd *cli.Command) error {
	mode, err := projection.ParseSortMode(cmd.String("sort"))
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	tasks := s.projector.Project(s.store.Tasks(), projection.Query{Search: cmd.String("search"), Sort: mode})
	out := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}
	for _, t := range tasks {
		fmt.Fprintln(out, formatTask(t))
	}
	return nil
}

func formatTask(t model.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s %d %s", box, t.ID, t.Text)
}

func addTask(ctx context.Context, cmd *cli.Command) error {
	text := strings.Join(cmd.Args().Slice(), " ")
	s, err := openSession(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	task, ok := s.store.Add(ctx, text)
	if !ok {
		return model.ErrEmptyText
	}
	fmt.Fprintln(cmd.Root().Writer, formatTask(task))
	return nil
}

func toggleTask(ctx context.Context, cmd *cli.Command) error {
	return withTaskID(ctx, cmd, func(s *session, id int64) error {
		if !s.store.ToggleComplete(ctx, id) {
			return fmt.Errorf("task %d not found", id)
		}
		task, _ := s.store.Find(id)
		fmt.Fprintln(cmd.Root().Writer, formatTask(task))
		return nil
	})
}

func deleteTask(ctx context.Context, cmd *cli.Command) error {
	return withTaskID(ctx, cmd, func(s *session, id int64) error {
		if !s.store.Delete(ctx, id) {
			return fmt.Errorf("task %d not found", id)
		}
		fmt.Fprintf(cmd.Root().Writer, "deleted %d\n", id)
		return nil
	})
}

func editTask(ctx context.Context, cmd *cli.Command) error {
	return withTaskID(ctx, cmd, func(s *session, id int64) error {
		text := strings.Join(cmd.Args().Tail(), " ")
		if !s.store.Update(ctx, id, text) {
			return fmt.Errorf("task %d not found", id)
		}
		task, _ := s.store.Find(id)
		fmt.Fprintln(cmd.Root().Writer, formatTask(task))
		return nil
	})
}

func setTheme(ctx context.Context, cmd *cli.Command) error {
	parsed, err := commands.Parse("theme " + cmd.Args().First())
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	dark := s.store.DarkMode()
	switch parsed.Theme.Choice {
	case commands.ThemeDark:
		dark = true
	case commands.ThemeLight:
		dark = false
	default:
		dark = !dark
	}
	s.store.SetTheme(ctx, dark)
	if dark {
		fmt.Fprintln(cmd.Root().Writer, "dark")
	} else {
		fmt.Fprintln(cmd.Root().Writer, "light")
	}
	return nil
}

func resetStore(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, "reset")
	return nil
}

func dumpEntries(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.repo.List(ctx, storage.EntryListFilter{
		Prefix: cmd.String("prefix"),
		Limit:  int(cmd.Int("limit")),
		Offset: int(cmd.Int("offset")),
	})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	out := cmd.Root().Writer
	for _, e := range entries {
		value := e.Value
		var compact bytes.Buffer
		if json.Compact(&compact, e.Value) == nil {
			value = compact.Bytes()
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", e.Key, e.UpdatedAt.UTC().Format(time.RFC3339), value)
	}
	return nil
}

func migrateSchema(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if storage.Driver(cfg.Storage.Driver) != storage.DriverSQLite {
		return fmt.Errorf("migrate needs the sqlite driver, configured %q", cfg.Storage.Driver)
	}
	down := cmd.Bool("down")
	if err := storage.MigrateSQLiteFile(ctx, cfg.Storage.Path, down); err != nil {
		return err
	}
	if down {
		fmt.Fprintln(cmd.Root().Writer, "migrated down")
	} else {
		fmt.Fprintln(cmd.Root().Writer, "migrated up")
	}
	return nil
}

func withTaskID(ctx context.Context, cmd *cli.Command, fn func(*session, int64) error) error {
	raw := cmd.Args().First()
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: %q", model.ErrInvalidID, raw)
	}
	s, err := openSession(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s, id)
}
