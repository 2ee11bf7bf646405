/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/hotsuka/todo-app/internal/collection"
	"github.com/hotsuka/todo-app/internal/logger"
	"github.com/hotsuka/todo-app/internal/model"
	"github.com/hotsuka/todo-app/internal/store"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "A local-first task tracker",
	Long: `todo keeps your tasks in a versioned JSON envelope on disk.
Create, filter, sort and complete tasks entirely offline; export,
import or back up the raw envelope whenever you want.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openCollection wires config -> logger -> file store -> adapter ->
// collection and loads the persisted tasks. Every command starts here.
func openCollection() (*collection.Collection, *store.Adapter, *model.Config, error) {
	config, err := store.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config (run `todo init` first): %w", err)
	}

	if err := logger.Init(*config); err != nil {
		log.Printf("⚠️ Failed to initialize logger: %v", err)
	}

	kv := store.NewFileKV(config.DataDir)
	adapter := store.NewAdapter(kv, config.Storage.Key, config.Storage.Version)
	if !adapter.IsAvailable() {
		log.Printf("⚠️ Storage at %s is not writable; changes will not be saved", config.DataDir)
	}

	col := collection.New(adapter)
	col.Load()
	return col, adapter, config, nil
}
