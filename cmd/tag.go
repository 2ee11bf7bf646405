/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// tagCmd represents the tag command
var tagCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag in use",
	Run: func(cmd *cobra.Command, args []string) {
		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		tags := col.AllTags()
		if len(tags) == 0 {
			fmt.Println("No tags yet.")
			return
		}
		for _, tag := range tags {
			fmt.Println(tag)
		}
	},
}

var categoryCmd = &cobra.Command{
	Use:   "categories",
	Short: "List every category in use",
	Run: func(cmd *cobra.Command, args []string) {
		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		categories := col.AllCategories()
		if len(categories) == 0 {
			fmt.Println("No categories yet.")
			return
		}
		for _, category := range categories {
			fmt.Println(category)
		}
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(categoryCmd)
}
