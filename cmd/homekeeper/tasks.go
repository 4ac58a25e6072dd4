package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/app"
	"github.com/nhle/homekeeper/internal/logging"
	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/theme"
)

var (
	taskStatus  string
	taskOverdue bool

	newTask struct {
		asset       int64
		due         string
		priority    string
		description string
	}
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List maintenance tasks",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runTasks),
}

var tasksAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a maintenance task",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runTasksAdd),
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runTasksDone),
}

var tasksReopenCmd = &cobra.Command{
	Use:   "reopen ID",
	Short: "Move a completed task back to pending",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runTasksReopen),
}

func init() {
	tasksCmd.Flags().StringVar(&taskStatus, "status", "",
		"only tasks in this status (pending, in_progress, completed, cancelled)")
	tasksCmd.Flags().BoolVar(&taskOverdue, "overdue", false, "only overdue tasks")

	f := tasksAddCmd.Flags()
	f.Int64Var(&newTask.asset, "asset", 0, "asset id the task belongs to")
	f.StringVar(&newTask.due, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar(&newTask.priority, "priority", "", "low, medium, high or urgent")
	f.StringVar(&newTask.description, "description", "", "what needs doing")

	tasksCmd.AddCommand(tasksAddCmd, tasksDoneCmd, tasksReopenCmd)
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, _ []string, e *env) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	list := app.NewTaskListModel(e.store.Tasks, e.home.ID, logging.FromContext(cmd.Context()))
	if err := list.Load(ctx); err != nil {
		_, st := list.Snapshot()
		return fmt.Errorf("%s", st.Message)
	}
	list.SetFilter(app.TaskFilter{Status: taskStatus, OverdueOnly: taskOverdue})
	rows, _ := list.Snapshot()

	assets, err := e.store.Assets.FindByHome(ctx, e.home.ID)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(assets))
	for _, a := range assets {
		names[a.ID] = a.Name
	}

	now := time.Now()
	table := make([][]string, len(rows))
	for i, r := range rows {
		status := r.Status
		if r.Overdue {
			status += " (overdue)"
		}
		table[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			lookup(names, r.AssetID),
			formatDue(r.DueDate, now),
			theme.PriorityStyle(optional(r.Priority)).Render(optional(r.Priority)),
			theme.TaskStatusStyle(r.Status, r.Overdue).Render(status),
		}
	}

	header(out, fmt.Sprintf("Tasks (%d)", len(rows)))
	renderTable(out, []string{"ID", "Task", "Asset", "Due", "Priority", "Status"}, table, "no tasks match")
	return nil
}

func runTasksAdd(cmd *cobra.Command, args []string, e *env) error {
	due, err := parseDate(newTask.due)
	if err != nil {
		return err
	}
	t := model.MaintenanceTask{
		Title:       args[0],
		DueDate:     due,
		Priority:    &newTask.priority,
		Description: &newTask.description,
	}
	if newTask.asset != 0 {
		t.AssetID = &newTask.asset
	}

	created, err := e.store.Tasks.Create(cmd.Context(), t)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", created.ID, created.Title)
	return nil
}

func runTasksDone(cmd *cobra.Command, args []string, e *env) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	t, err := e.store.Tasks.Complete(cmd.Context(), id, time.Now())
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("task %d not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Completed task %d: %s\n", t.ID, t.Title)
	return nil
}

func runTasksReopen(cmd *cobra.Command, args []string, e *env) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	t, err := e.store.Tasks.Reopen(cmd.Context(), id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("task %d not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reopened task %d: %s\n", t.ID, t.Title)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
