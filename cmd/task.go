/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/hotsuka/todo-app/internal/collection"
	"github.com/hotsuka/todo-app/internal/model"
	"github.com/hotsuka/todo-app/internal/store"
	"github.com/hotsuka/todo-app/internal/util"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var taskDescription string
var taskPriority string
var taskDue string
var taskCategories []string
var taskTags []string
var taskStatus string
var taskSearchQuery string
var taskSortField string
var taskSortOrder string
var taskFrom string
var taskTo string
var taskPageSize int
var taskMeta bool
var taskForceClear bool
var updatedTitle string

// surfaceError prints a validation or storage failure without killing the
// session. Only ValidationError means the operation did not happen.
func surfaceError(err error) bool {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		log.Printf("❌ %v", validationErr)
		return false
	}
	var storageErr *store.StorageError
	if errors.As(err, &storageErr) {
		log.Printf("⚠️ Changes kept in memory but not saved: %v", storageErr)
		return true
	}
	if err != nil {
		log.Printf("⚠️ %v", err)
	}
	return true
}

// resolvePageSize maps `--limit -1` (and any other non-positive limit) to
// showing everything at once, so paging always terminates.
func resolvePageSize(limit, total int) int {
	if limit <= 0 {
		return total
	}
	return limit
}

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Manage tasks",
	Aliases: []string{"t"},
}

var newTaskCmd = &cobra.Command{
	Use:     "new [title]",
	Short:   "Add a new task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"n"},
	Run: func(cmd *cobra.Command, args []string) {
		taskTitle := args[0]

		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		task, err := col.Add(model.Task{
			Title:       taskTitle,
			Description: taskDescription,
			Priority:    taskPriority,
			DueDate:     taskDue,
			Categories:  taskCategories,
			Tags:        taskTags,
		})
		if !surfaceError(err) {
			os.Exit(1)
		}

		fmt.Printf("✅ Task %q created (ID: %s)\n", task.Title, task.ID)
	},
}

var listTaskCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		criteria := collection.Filter{
			Status:   taskStatus,
			Priority: taskPriority,
			Search:   taskSearchQuery,
		}
		if len(taskCategories) > 0 {
			criteria.Category = taskCategories[0]
		}
		if len(taskTags) > 0 {
			criteria.Tag = model.NormalizeTags(taskTags)[0]
		}

		base := col.Match(criteria)
		if taskSortField != "" {
			base = []*model.Task{}
			for _, task := range col.Sort(taskSortField, taskSortOrder) {
				if criteria.Matches(task) {
					base = append(base, task)
				}
			}
		}

		filteredTasks := []*model.Task{}
		for _, task := range base {
			if !util.IsWithinDateRange(task.CreatedAt, taskFrom, taskTo) {
				continue
			}
			filteredTasks = append(filteredTasks, task)
		}

		reader := bufio.NewReader(os.Stdin)
		page := 0

		fmt.Println(strings.Repeat("=", 30))
		fmt.Printf("Tasks: %v tasks shown\n", len(filteredTasks))
		fmt.Println(strings.Repeat("=", 30))

		pageSize := resolvePageSize(taskPageSize, len(filteredTasks))

		for {
			start := page * pageSize
			end := start + pageSize

			if start >= len(filteredTasks) {
				fmt.Println("No more tasks to display.")
				break
			}
			if end > len(filteredTasks) {
				end = len(filteredTasks)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleDouble)
			t.Style().Options.SeparateRows = false

			t.AppendHeader(table.Row{
				text.FgGreen.Sprintf("ID"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Title")),
				text.FgGreen.Sprintf("Priority"),
				text.FgGreen.Sprintf("Status"),
				text.FgGreen.Sprintf("Due"),
				text.FgGreen.Sprintf("Categories"), text.FgGreen.Sprintf("Tags"),
			})

			for _, task := range filteredTasks[start:end] {
				priorityColored := task.Priority
				switch task.Priority {
				case model.PriorityHigh:
					priorityColored = text.FgHiRed.Sprintf("%s", task.Priority)
				case model.PriorityMedium:
					priorityColored = text.FgHiYellow.Sprintf("%s", task.Priority)
				case model.PriorityLow:
					priorityColored = text.FgHiBlue.Sprintf("%s", task.Priority)
				}

				status := "Open"
				if task.Completed {
					status = text.FgHiGreen.Sprintf("Done")
				} else if task.IsOverdue() {
					status = text.FgHiRed.Sprintf("Overdue")
				} else if task.IsDueToday() {
					status = text.FgHiYellow.Sprintf("Due today")
				}

				t.AppendRow(table.Row{
					task.ID,
					task.Title,
					priorityColored,
					status,
					task.DueDate,
					strings.Join(task.Categories, ", "),
					strings.Join(task.Tags, ", "),
				})
			}

			t.Render()

			if end >= len(filteredTasks) {
				break
			}

			fmt.Print("\nPress Enter for the next page (q to quit): ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			if input == "q" {
				break
			}

			page++
		}
	},
}

var showTaskCmd = &cobra.Command{
	Use:     "show [Task ID]",
	Short:   "Show task detail",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"s"},
	Run: func(cmd *cobra.Command, args []string) {
		taskID := args[0]

		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		task := col.FindByID(taskID)
		if task == nil {
			log.Printf("❌ Task with ID %s not found", taskID)
			os.Exit(1)
		}

		titleStyle := color.New(color.FgCyan, color.Bold).SprintFunc()
		metaStyle := color.New(color.FgHiGreen).SprintFunc()

		fmt.Printf("[%v] %v\n", titleStyle(task.ID), titleStyle(task.Title))
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("Priority: %v\n", metaStyle(task.Priority))
		fmt.Printf("Completed: %v\n", metaStyle(task.Completed))
		fmt.Printf("Due date: %v\n", metaStyle(task.DueDate))
		fmt.Printf("Categories: %v\n", metaStyle(task.Categories))
		fmt.Printf("Tags: %v\n", metaStyle(task.Tags))
		fmt.Printf("Created at: %v\n", metaStyle(task.CreatedAt))
		fmt.Printf("Updated at: %v\n", metaStyle(task.UpdatedAt))
		if task.CompletedAt != "" {
			fmt.Printf("Completed at: %v\n", metaStyle(task.CompletedAt))
		}

		// Render the description as Markdown unless --meta is used
		if !taskMeta && task.Description != "" {
			renderedContent, err := glamour.Render(task.Description, "dark")
			if err != nil {
				log.Printf("⚠️ Failed to render description: %v", err)
			} else {
				fmt.Println(renderedContent)
			}
		}
	},
}

var updateTaskCmd = &cobra.Command{
	Use:   "update [Task ID]",
	Short: "Update task fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		taskID := args[0]

		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		fields := model.TaskUpdate{}
		if cmd.Flags().Changed("title") {
			fields.Title = &updatedTitle
		}
		if cmd.Flags().Changed("description") {
			fields.Description = &taskDescription
		}
		if cmd.Flags().Changed("priority") {
			fields.Priority = &taskPriority
		}
		if cmd.Flags().Changed("due") {
			fields.DueDate = &taskDue
		}
		if cmd.Flags().Changed("category") {
			fields.Categories = taskCategories
		}
		if cmd.Flags().Changed("tag") {
			fields.Tags = taskTags
		}

		task, err := col.Update(taskID, fields)
		if !surfaceError(err) {
			os.Exit(1)
		}
		if task == nil {
			log.Printf("❌ Task with ID %s not found", taskID)
			os.Exit(1)
		}

		fmt.Printf("✅ Task %s updated\n", taskID)
	},
}

var toggleTaskCmd = &cobra.Command{
	Use:     "toggle [Task ID]",
	Short:   "Toggle task completion",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"done"},
	Run: func(cmd *cobra.Command, args []string) {
		taskID := args[0]

		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		task, err := col.Toggle(taskID)
		surfaceError(err)
		if task == nil {
			log.Printf("❌ Task with ID %s not found", taskID)
			os.Exit(1)
		}

		if task.Completed {
			fmt.Printf("✅ Task %s marked as done\n", taskID)
		} else {
			fmt.Printf("✅ Task %s reopened\n", taskID)
		}
	},
}

var removeTaskCmd = &cobra.Command{
	Use:     "remove [Task ID]",
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	Run: func(cmd *cobra.Command, args []string) {
		taskID := args[0]

		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		removed, err := col.Delete(taskID)
		surfaceError(err)
		if !removed {
			log.Printf("❌ Task with ID %s not found", taskID)
			os.Exit(1)
		}

		fmt.Printf("✅ Task %s removed\n", taskID)
	},
}

var clearTaskCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every task",
	Run: func(cmd *cobra.Command, args []string) {
		col, _, _, err := openCollection()
		if err != nil {
			log.Printf("❌ %v", err)
			os.Exit(1)
		}

		if !taskForceClear {
			reader := bufio.NewReader(os.Stdin)
			fmt.Print("Remove ALL tasks? (y/N): ")
			input, _ := reader.ReadString('\n')
			if strings.TrimSpace(input) != "y" {
				fmt.Println("Aborted.")
				return
			}
		}

		surfaceError(col.Clear())
		fmt.Println("✅ All tasks removed")
	},
}

func init() {
	taskCmd.AddCommand(newTaskCmd)
	taskCmd.AddCommand(listTaskCmd)
	taskCmd.AddCommand(showTaskCmd)
	taskCmd.AddCommand(updateTaskCmd)
	taskCmd.AddCommand(toggleTaskCmd)
	taskCmd.AddCommand(removeTaskCmd)
	taskCmd.AddCommand(clearTaskCmd)
	rootCmd.AddCommand(taskCmd)

	newTaskCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description (Markdown)")
	newTaskCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "Priority: high, medium, low")
	newTaskCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	newTaskCmd.Flags().StringSliceVarP(&taskCategories, "category", "c", []string{}, "Specify categories")
	newTaskCmd.Flags().StringSliceVarP(&taskTags, "tag", "t", []string{}, "Specify tags")

	listTaskCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status (all, active, completed)")
	listTaskCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "Filter by priority")
	listTaskCmd.Flags().StringSliceVarP(&taskCategories, "category", "c", []string{}, "Filter by category")
	listTaskCmd.Flags().StringSliceVarP(&taskTags, "tag", "t", []string{}, "Filter by tag")
	listTaskCmd.Flags().StringVarP(&taskSearchQuery, "search", "q", "", "Search by title or description")
	listTaskCmd.Flags().StringVar(&taskSortField, "sort", "", "Sort by field (title, priority, dueDate, createdAt, updatedAt)")
	listTaskCmd.Flags().StringVar(&taskSortOrder, "order", "asc", "Sort order (asc, desc)")
	listTaskCmd.Flags().StringVar(&taskFrom, "from", "", "Filter by creation start date (YYYY-MM-DD)")
	listTaskCmd.Flags().StringVar(&taskTo, "to", "", "Filter by creation end date (YYYY-MM-DD)")
	listTaskCmd.Flags().IntVar(&taskPageSize, "limit", 20, "Set the number of tasks to display per page (-1 for all)")

	showTaskCmd.Flags().BoolVar(&taskMeta, "meta", false, "Show only metadata without the description")

	updateTaskCmd.Flags().StringVar(&updatedTitle, "title", "", "New title")
	updateTaskCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "New description")
	updateTaskCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "New priority")
	updateTaskCmd.Flags().StringVar(&taskDue, "due", "", "New due date (empty to clear)")
	updateTaskCmd.Flags().StringSliceVarP(&taskCategories, "category", "c", []string{}, "Replace categories")
	updateTaskCmd.Flags().StringSliceVarP(&taskTags, "tag", "t", []string{}, "Replace tags")

	clearTaskCmd.Flags().BoolVarP(&taskForceClear, "force", "f", false, "Skip the confirmation prompt")
}
