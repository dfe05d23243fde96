package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halverin/relgen/internal/cli"
	"github.com/halverin/relgen/internal/fingerprint"
)

// lockCmd records or verifies the schema fingerprint.
func lockCmd() *cobra.Command {
	var (
		lockFile string
		verify   bool
	)

	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Record or verify the schema fingerprint",
		Long: `Computes a merkle fingerprint over every generated table definition and
records it in relgen.lock. With --verify, compares the current schemas against
the recorded fingerprint and reports drift per table.`,
		Example: `  relgen lock
  relgen lock --verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLock(lockFile, verify)
		},
	}

	cmd.Flags().StringVar(&lockFile, "file", fingerprint.DefaultLockFile, "Lock file path")
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify instead of writing")

	return cmd
}

func runLock(lockFile string, verify bool) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	fp, err := c.Fingerprint()
	if err != nil {
		return err
	}

	if verify {
		if err := fingerprint.Verify(lockFile, fp); err != nil {
			return err
		}
		fmt.Println(cli.OKBadge("OK") + " " + "schema matches " + lockFile)
		return nil
	}

	if err := fingerprint.WriteLock(lockFile, fp); err != nil {
		return err
	}
	fmt.Println(cli.Success("✓") + " " + fmt.Sprintf("recorded fingerprint for %d table(s) in %s", len(fp.Tables), lockFile))
	return nil
}
