package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halverin/relgen/internal/adapter"
	"github.com/halverin/relgen/internal/cli"
)

// dialectsCmd lists the registered dialect adapters.
func dialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported dialects",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cli.Header("Supported dialects:"))
			for _, name := range adapter.Default().Names() {
				fmt.Println("  " + name)
			}
			return nil
		},
	}
}
