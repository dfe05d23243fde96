package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/halverin/relgen/internal/cli"
	"github.com/halverin/relgen/pkg/relgen"
)

// genCmd renders CREATE TABLE SQL for all (or selected) entities.
func genCmd() *cobra.Command {
	var (
		dialect string
		outFile string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "gen [entity...]",
		Short: "Generate CREATE TABLE SQL for a dialect",
		Example: `  # All entities, dialect from relgen.yaml
  relgen gen

  # One entity on PostgreSQL, written to a file
  relgen gen user --dialect postgres -o schema.sql

  # Regenerate on schema file changes
  relgen gen --watch -o schema.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return runWatch(args, dialect, outFile)
			}
			return runGen(args, dialect, outFile)
		},
	}

	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "Target dialect (sqlite, mysql, postgres)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write SQL to a file instead of stdout")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate when schema or config files change")

	return cmd
}

func runGen(entities []string, dialectFlag, outFile string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	dialect := pickDialect(dialectFlag, c)

	results, err := generate(c, entities, dialect)
	if err != nil {
		return err
	}

	scripts := make([]string, 0, len(results))
	for _, r := range results {
		scripts = append(scripts, r.SQL)
	}
	script := strings.Join(scripts, "\n\n") + "\n"

	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(script), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Println(cli.Success("✓") + " " + fmt.Sprintf("wrote %d table(s) for %s to %s", len(results), dialect, outFile))
	} else {
		fmt.Print(script)
	}

	reportWarnings(results)
	return nil
}

// generate produces results for the named entities, or every entity when none
// are named.
func generate(c *relgen.Client, entities []string, dialect string) ([]relgen.Result, error) {
	if len(entities) == 0 {
		return c.GenerateAll(dialect)
	}

	results := make([]relgen.Result, 0, len(entities))
	for _, entity := range entities {
		table, err := c.TableDefinition(entity, dialect)
		if err != nil {
			return nil, err
		}
		sql, err := c.CreateTableSQL(entity, dialect)
		if err != nil {
			return nil, err
		}
		results = append(results, relgen.Result{Entity: entity, Table: table, SQL: sql})
	}
	return results, nil
}

// reportWarnings prints generator-default warnings to stderr so they never
// pollute piped SQL output.
func reportWarnings(results []relgen.Result) {
	for _, r := range results {
		for _, w := range r.Table.Warnings {
			fmt.Fprintf(os.Stderr, "%s %s.%s: %s\n",
				cli.WarnBadge("WARN"), r.Entity, w.Field, w.Message)
		}
	}
}

// runWatch regenerates on every schema or config change until interrupted.
func runWatch(entities []string, dialectFlag, outFile string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(schemasDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", schemasDir, err)
	}
	// The config file may not exist yet; watch its directory instead.
	if dir := filepath.Dir(configFile); dir != schemasDir {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	regen := func() {
		if err := runGen(entities, dialectFlag, outFile); err != nil {
			fmt.Fprintln(os.Stderr, cli.FormatError(err))
		}
	}
	regen()

	fmt.Fprintln(os.Stderr, cli.Info("watching for changes (ctrl-c to stop)"))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Editors fire bursts of events per save; collapse them with a short
	// debounce timer.
	var debounce *time.Timer
	debounced := make(chan struct{}, 1)

	for {
		select {
		case <-stop:
			return nil
		case <-debounced:
			regen()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if !relevantPath(event.Name) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case debounced <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, cli.FormatError(err))
		}
	}
}

// relevantPath reports whether a changed file affects generation: schema YAML
// files and the config file itself.
func relevantPath(path string) bool {
	if filepath.Clean(path) == filepath.Clean(configFile) {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
