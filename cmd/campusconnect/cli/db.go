package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database utilities",
	}

	cmd.AddCommand(newDBSeedCmd())
	cmd.AddCommand(newDBPingCmd())

	return cmd
}

// ---------- db seed ----------

func newDBSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Load institutions and scholarships from a YAML file",
		Long: `Load directory entries from a YAML seed file. Institutions already present
(matched by IPEDS id) are skipped, so re-running a seed is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			institutions, scholarships, err := st.SeedFromFile(cmdCtx(), args[0])
			if err != nil {
				return fmt.Errorf("seed from %s: %w", args[0], err)
			}

			fmt.Printf("Seeded %d institutions and %d scholarships from %s\n",
				institutions, scholarships, args[0])
			return nil
		},
	}
	return cmd
}

// ---------- db ping ----------

func newDBPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			if err := st.Ping(cmdCtx()); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			fmt.Println("Database is reachable.")
			return nil
		},
	}
	return cmd
}
