package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/frontdesk/hotel"
)

var resetSeasonCmd = &cobra.Command{
	Use:   "reset-season",
	Short: "Archive the charge ledger and start a new empty one",
	Long: `reset-season copies the current charge ledger to a timestamped backup
(<base>_BACKUP_<DD-MM-YYYY_HH-MM>.csv, next to the ledger) and rewrites the
ledger empty. The guest registry is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		backup, err := newDesk(cfg).ResetSeason()
		if errors.Is(err, hotel.ErrNoCharges) {
			fmt.Println("no charges recorded; nothing to archive")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("season reset, backup saved to %s\n", backup)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the frontdesk version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.AddCommand(resetSeasonCmd)
	rootCmd.AddCommand(versionCmd)
}
