/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the raw stored envelope to a JSON file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, adapter, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		raw, ok := adapter.ExportRaw()
		if !ok {
			log.Printf("❌ Nothing to export: no envelope has been stored yet")
			os.Exit(1)
		}

		path := fmt.Sprintf("todos-%s.json", time.Now().Format("2006-01-02"))
		if len(args) == 1 {
			path = args[0]
		}

		// The envelope is written verbatim, byte for byte.
		if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
			log.Printf("❌ Failed to write export file: %v", err)
			os.Exit(1)
		}

		fmt.Printf("✅ Exported tasks to %s\n", path)
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Replace the stored envelope with the contents of a JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		col, adapter, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Printf("❌ Failed to read import file: %v", err)
			os.Exit(1)
		}

		if err := adapter.ImportRaw(string(data)); err != nil {
			log.Printf("❌ Import rejected, stored tasks are unchanged: %v", err)
			os.Exit(1)
		}

		col.Load()
		fmt.Printf("✅ Imported %d tasks from %s\n", col.Stats().Total, args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
