// Package main provides the relgen CLI: generate multi-dialect CREATE TABLE
// SQL from entity schema files, verify the generated DDL, and track schema
// fingerprints in a lock file.
//
// Usage:
//
//	relgen gen --dialect postgres    # Render CREATE TABLE SQL
//	relgen gen --watch               # Regenerate on schema changes
//	relgen check                     # Validate schemas and verify DDL
//	relgen dialects                  # List supported dialects
//	relgen lock                      # Record the schema fingerprint
//	relgen lock --verify             # Detect drift against the fingerprint
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/halverin/relgen/internal/cli"
	"github.com/halverin/relgen/internal/config"
	"github.com/halverin/relgen/pkg/relgen"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags.
var (
	configFile string
	schemasDir string
	plain      bool
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "relgen",
		Short:   "Multi-dialect relational schema generator",
		Long:    "relgen turns abstract entity schemas into dialect-correct CREATE TABLE SQL\nfor SQLite, MySQL, and PostgreSQL, with config-driven physical naming overrides.",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plain {
				cli.SetDefault(&cli.Config{Mode: cli.ModePlain})
			}
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Flag names are case-insensitive for muscle-memory friendliness.
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ToLower(name))
	})

	root.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFile, "Path to override config file")
	root.PersistentFlags().StringVarP(&schemasDir, "schemas", "s", "./schemas", "Directory containing entity schema files")
	root.PersistentFlags().BoolVar(&plain, "plain", false, "Disable styled output")

	root.AddCommand(genCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(dialectsCmd())
	root.AddCommand(lockCmd())

	return root
}

// newClient builds the engine client from the global flags.
func newClient() (*relgen.Client, error) {
	return relgen.New(
		relgen.WithSchemasDir(schemasDir),
		relgen.WithConfigFile(configFile),
	)
}

// pickDialect returns the explicit flag value when given, the config-derived
// default otherwise.
func pickDialect(flag string, c *relgen.Client) string {
	if flag != "" {
		return flag
	}
	return c.Dialect()
}
