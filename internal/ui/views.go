package ui

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/crewboard/models"
)

// RenderTaskList prints a table of tasks. Blocked ids carry a marker so
// agents can see at a glance what is actionable.
func RenderTaskList(tasks []models.Task, blocked map[string]bool) {
	table := &Table{
		Headers:  []string{"ID", "Title", "Status", "Executor", "Sprint", "Deps"},
		MaxWidth: 40,
	}
	for i, t := range tasks {
		id := t.ID
		if blocked[t.ID] {
			id += " ⛔"
		}
		sprint := ""
		if t.SprintID != nil {
			sprint = *t.SprintID
		}
		deps := ""
		if len(t.DependsOn) > 0 {
			deps = strings.Join(t.DependsOn, ",")
		}
		table.Rows = append(table.Rows, []string{id, t.Title, string(t.Status), t.Executor, sprint, deps})
		table.StyleCell(i, 2, StatusStyle(t.Status))
	}
	fmt.Print(table.Render())
	fmt.Printf(" %s\n", StyleSubtle.Render(fmt.Sprintf("%d task(s)", len(tasks))))
}

// RenderTaskDetail prints the full record of one task.
func RenderTaskDetail(task models.Task, blocked bool) {
	var sb strings.Builder
	writeField := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", StyleSubtle.Render(label+":"), value))
	}

	writeField("Status", StatusStyle(task.Status).Render(TitleCase(string(task.Status))))
	writeField("Author", task.Author)
	writeField("Executor", task.Executor)
	if task.SprintID != nil {
		writeField("Sprint", *task.SprintID)
	}
	if len(task.DependsOn) > 0 {
		writeField("Depends on", strings.Join(task.DependsOn, ", "))
	}
	if len(task.Dependents) > 0 {
		writeField("Dependents", strings.Join(task.Dependents, ", "))
	}
	if blocked {
		writeField("Blocked", StyleWarning.Render("yes"))
	}
	if task.Description != "" {
		sb.WriteString("\n" + WrapText(task.Description, 76) + "\n")
	}
	if task.Result != "" {
		sb.WriteString("\n" + StyleSectionTitle.Render("Result") + "\n" + WrapText(task.Result, 76) + "\n")
	}

	fmt.Println(RenderPanel(fmt.Sprintf("%s  %s", task.ID, task.Title), strings.TrimRight(sb.String(), "\n")))
}

// RenderSprintList prints a table of sprints.
func RenderSprintList(sprints []models.Sprint) {
	table := &Table{
		Headers:  []string{"ID", "Name", "Status", "Goal", "Finalize"},
		MaxWidth: 40,
	}
	for i, s := range sprints {
		table.Rows = append(table.Rows, []string{s.ID, s.Name, string(s.Status), s.Goal, s.FinalizeTaskID})
		if s.Status == models.SprintCompleted {
			table.StyleCell(i, 2, StyleSuccess)
		}
	}
	fmt.Print(table.Render())
}

// RenderBacklogList prints a table of backlog items.
func RenderBacklogList(items []models.BacklogItem) {
	table := &Table{
		Headers:  []string{"ID", "Title", "Priority", "Next", "Promoted"},
		MaxWidth: 40,
	}
	for i, item := range items {
		next := ""
		if item.NextSprint {
			next = "✓"
		}
		promoted := ""
		if item.Promoted {
			promoted = item.PromotedTask
		}
		table.Rows = append(table.Rows, []string{item.ID, item.Title, string(item.Priority), next, promoted})
		table.StyleCell(i, 2, PriorityStyle(item.Priority))
	}
	fmt.Print(table.Render())
}

// RenderEmployeeList prints the employee registry.
func RenderEmployeeList(employees []models.Employee) {
	table := &Table{Headers: []string{"Name", "Role"}}
	for _, e := range employees {
		table.Rows = append(table.Rows, []string{e.Name, TitleCase(string(e.Role))})
	}
	fmt.Print(table.Render())
}

// RenderDiscussion prints a task's discussion log, one block per entry.
func RenderDiscussion(taskID string, entries []models.DiscussionEntry) {
	if len(entries) == 0 {
		fmt.Println(StyleSubtle.Render("No discussion yet for " + taskID + "."))
		return
	}
	for _, e := range entries {
		header := fmt.Sprintf("%s %s",
			StyleTitle.Render(e.Author),
			StyleSubtle.Render(fmt.Sprintf("(%s) %s", e.Role, e.Timestamp.Format("2006-01-02 15:04"))))
		fmt.Println(header)
		fmt.Println(WrapText(e.Body, 76))
		fmt.Println()
	}
}
