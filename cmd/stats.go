/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts",
	Run: func(cmd *cobra.Command, args []string) {
		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		stats := col.Stats()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleDouble)
		t.AppendHeader(table.Row{
			text.FgGreen.Sprintf("Total"),
			text.FgGreen.Sprintf("Completed"),
			text.FgGreen.Sprintf("Active"),
			text.FgGreen.Sprintf("Overdue"),
			text.FgGreen.Sprintf("Due today"),
		})
		t.AppendRow(table.Row{
			stats.Total,
			text.FgHiGreen.Sprintf("%d", stats.Completed),
			text.FgHiYellow.Sprintf("%d", stats.Active),
			text.FgHiRed.Sprintf("%d", stats.Overdue),
			text.FgHiBlue.Sprintf("%d", stats.DueToday),
		})
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
