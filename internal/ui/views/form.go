package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/ui/styles"
	"github.com/tgienger/tick/internal/validate"
)

const editFields = 5 // title, desc, priority, status, save

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format("January 2, 2006 at 3:04 PM")
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return 0
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingID = ""
	v.editFocusIdx = 0
	v.editErrors = nil
	v.editShowErrors = false
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editPriority = indexOf(models.Priorities, models.PriorityMedium)
	v.editStatus = indexOf(models.Statuses, models.StatusTodo)
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingID = task.ID
	v.editFocusIdx = 0
	v.editErrors = nil
	v.editShowErrors = false
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editPriority = indexOf(models.Priorities, task.Priority)
	v.editStatus = indexOf(models.Statuses, task.Status)
	v.updateEditFocus()
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % editFields
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + editFields - 1) % editFields
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter on title or a selector moves to the next field
		if v.editFocusIdx == 0 || v.editFocusIdx == 2 || v.editFocusIdx == 3 {
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
		if v.editFocusIdx == 4 {
			return v, v.saveTask()
		}
		// For the description textarea, let enter pass through for newlines

	case key.Matches(msg, v.keys.Left):
		if v.shiftSelector(-1) {
			return v, nil
		}

	case key.Matches(msg, v.keys.Right), msg.String() == " ":
		if v.shiftSelector(1) {
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	}
	if v.editShowErrors {
		v.editErrors = validate.Task(v.editTitle.Value(), v.editDesc.Value())
	}
	return v, cmd
}

// shiftSelector moves the focused priority or status selector by dir
func (v *TaskListView) shiftSelector(dir int) bool {
	switch v.editFocusIdx {
	case 2:
		n := len(models.Priorities)
		v.editPriority = (v.editPriority + dir + n) % n
		return true
	case 3:
		n := len(models.Statuses)
		v.editStatus = (v.editStatus + dir + n) % n
		return true
	}
	return false
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()

	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	}
}

// saveTask validates the form and, if it passes, hands the change to the
// tracker. Invalid input keeps the form open with field errors.
func (v *TaskListView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	desc := strings.TrimSpace(v.editDesc.Value())

	errs := validate.Task(title, desc)
	if !errs.OK() {
		v.editErrors = errs
		v.editShowErrors = true
		return nil
	}

	priority := models.Priorities[v.editPriority]
	status := models.Statuses[v.editStatus]
	v.editing = false

	if v.editingID == "" {
		in := models.TaskInput{Title: title, Description: desc, Priority: priority, Status: status}
		return func() tea.Msg {
			task, err := v.tracker.Create(context.Background(), in)
			return taskMutatedMsg{op: store.OpCreate, id: task.ID, found: err == nil, err: err}
		}
	}

	id := v.editingID
	current, ok := v.tracker.Store().Get(id)
	if !ok {
		v.status = "Task no longer exists"
		v.refresh()
		return nil
	}

	// only send the fields that changed
	var patch models.TaskPatch
	if title != current.Title {
		patch.Title = models.Ptr(title)
	}
	if desc != current.Description {
		patch.Description = models.Ptr(desc)
	}
	if priority != current.Priority {
		patch.Priority = models.Ptr(priority)
	}
	if status != current.Status {
		patch.Status = models.Ptr(status)
	}
	if patch.Empty() {
		return nil
	}

	return func() tea.Msg {
		found, err := v.tracker.Update(context.Background(), id, patch)
		return taskMutatedMsg{op: store.OpUpdate, id: id, found: found, err: err}
	}
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if v.editingID != "" {
		formTitle = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	priorityStyle := s.Input
	statusStyle := s.Input
	btnStyle := s.Button

	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		priorityStyle = s.InputFocused
	case 3:
		statusStyle = s.InputFocused
	case 4:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	var priorities []string
	for i, p := range models.Priorities {
		label := p.Label()
		if i == v.editPriority {
			label = lipgloss.NewStyle().Foreground(s.PriorityColor(p)).Bold(true).Render("● " + label)
		} else {
			label = s.TitleMuted.Render("○ " + label)
		}
		priorities = append(priorities, label)
	}

	var statuses []string
	for i, st := range models.Statuses {
		label := st.Label()
		if i == v.editStatus {
			label = lipgloss.NewStyle().Foreground(s.StatusColor(st)).Bold(true).Render("● " + label)
		} else {
			label = s.TitleMuted.Render("○ " + label)
		}
		statuses = append(statuses, label)
	}

	saveLabel := " Save "
	if v.tracker.Busy(store.OpCreate) || v.tracker.Busy(store.OpUpdate) {
		saveLabel = " Saving… "
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		v.fieldError("title"),
		"Description:",
		descStyle.Render(v.editDesc.View()),
		v.fieldError("description"),
		"Priority:",
		priorityStyle.Width(inputWidth).Render(strings.Join(priorities, "  ")),
		"",
		"Status:",
		statusStyle.Width(inputWidth).Render(strings.Join(statuses, "  ")),
		"",
		btnStyle.Render(saveLabel),
		"",
		helpBar(s,
			relabel(v.keys.Tab, "tab", "next field"),
			relabel(v.keys.Left, "←/→", "choose"),
			v.keys.Save,
			relabel(v.keys.Back, "esc", "cancel"),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) fieldError(field string) string {
	if !v.editShowErrors {
		return ""
	}
	msg, ok := v.editErrors[field]
	if !ok {
		return ""
	}
	return v.styles.FieldError.Render(msg)
}
