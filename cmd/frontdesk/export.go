package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:       "export {day-close|cash-handover|checkouts}",
	Short:     "Write an end-of-day export artifact to a file",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"day-close", "cash-handover", "checkouts"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		exp := newExporter(cfg)

		switch args[0] {
		case "day-close":
			out := exportOut
			if out == "" {
				out = exp.DayCloseFilename()
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := exp.WriteDayClose(f); err != nil {
				return err
			}
			fmt.Println(out)

		case "cash-handover":
			sheet, err := exp.CashHandover()
			if err != nil {
				return err
			}
			defer sheet.Close()
			out := exportOut
			if out == "" {
				out = exp.CashHandoverFilename()
			}
			if err := sheet.SaveAs(out); err != nil {
				return err
			}
			fmt.Println(out)

		case "checkouts":
			sheet, err := exp.CheckoutHandover()
			if err != nil {
				return err
			}
			defer sheet.Close()
			out := exportOut
			if out == "" {
				out = exp.CheckoutHandoverFilename()
			}
			if err := sheet.SaveAs(out); err != nil {
				return err
			}
			fmt.Println(out)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: dated name in the working directory)")
	rootCmd.AddCommand(exportCmd)
}
