package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/ui/styles"
	"github.com/tgienger/tick/internal/validate"
)

func testStyles() *styles.Styles {
	return styles.NewStyles(styles.ForMode(models.ThemeDark))
}

func newTestView(t *testing.T, opts TaskListOptions) (*TaskListView, *store.TaskStore) {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	s := store.New(store.WithClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}))
	v := NewTaskListView(store.NewTracker(s, 0), testStyles(), opts)
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return v, s
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg to the view, runs the resulting command and feeds any
// store result back in. It returns the message the command produced.
func press(t *testing.T, v *TaskListView, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := v.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	if m, ok := out.(taskMutatedMsg); ok {
		v.Update(m)
	}
	return out
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func addTask(s *store.TaskStore, title string, p models.Priority, st models.Status) models.Task {
	return s.Add(models.TaskInput{Title: title, Priority: p, Status: st})
}

func TestTaskList_CreateTask(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})

	press(t, v, runeKey("n"))
	require.True(t, v.editing)
	assert.Equal(t, "", v.editingID)

	v.editTitle.SetValue("  Buy milk  ")
	v.editDesc.SetValue("2 liters")
	msg := press(t, v, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.IsType(t, taskMutatedMsg{}, msg)
	assert.False(t, v.editing)
	assert.Equal(t, "Task created", v.status)

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Buy milk", all[0].Title)
	assert.Equal(t, "2 liters", all[0].Description)
	assert.Equal(t, models.PriorityMedium, all[0].Priority)
	assert.Equal(t, models.StatusTodo, all[0].Status)
	assert.Equal(t, []string{"Buy milk"}, titles(v.visible))
}

func TestTaskList_CreateUsesSelectors(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})

	press(t, v, runeKey("n"))
	v.editTitle.SetValue("Ship release")

	// title -> description -> priority
	press(t, v, tea.KeyMsg{Type: tea.KeyTab})
	press(t, v, tea.KeyMsg{Type: tea.KeyTab})
	press(t, v, tea.KeyMsg{Type: tea.KeyRight})
	// -> status
	press(t, v, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, v, tea.KeyMsg{Type: tea.KeyLeft})
	// -> save button
	press(t, v, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, v, tea.KeyMsg{Type: tea.KeyEnter})

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, models.PriorityHigh, all[0].Priority)
	assert.Equal(t, models.StatusDone, all[0].Status)
	assert.True(t, all[0].Completed)
}

func TestTaskList_InvalidFormStaysOpen(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})

	press(t, v, runeKey("n"))
	v.editTitle.SetValue("   ")
	msg := press(t, v, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, msg)
	assert.True(t, v.editing)
	assert.Equal(t, validate.MsgTitleRequired, v.editErrors["title"])
	assert.Contains(t, v.View(), validate.MsgTitleRequired)
	assert.Equal(t, 0, s.Len())

	// errors clear as the user fixes the field
	v.editTitle.SetValue("Fixed")
	press(t, v, runeKey("!"))
	assert.True(t, v.editErrors.OK())
}

func TestTaskList_CancelForm(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})

	press(t, v, runeKey("n"))
	v.editTitle.SetValue("Never saved")
	press(t, v, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.editing)
	assert.Equal(t, 0, s.Len())
}

func TestTaskList_EditTask(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	task := addTask(s, "Draft", models.PriorityLow, models.StatusTodo)
	v.refresh()

	press(t, v, runeKey("e"))
	require.True(t, v.editing)
	assert.Equal(t, task.ID, v.editingID)
	assert.Equal(t, "Draft", v.editTitle.Value())

	v.editTitle.SetValue("Final")
	press(t, v, tea.KeyMsg{Type: tea.KeyCtrlS})

	got, ok := s.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, models.PriorityLow, got.Priority)
	assert.Equal(t, "Task updated", v.status)
}

func TestTaskList_EditWithoutChangesSendsNothing(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	addTask(s, "Same", models.PriorityLow, models.StatusTodo)
	v.refresh()

	press(t, v, runeKey("e"))
	msg := press(t, v, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, msg)
	assert.False(t, v.editing)
}

func TestTaskList_EditDeletedTask(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	task := addTask(s, "Gone soon", models.PriorityLow, models.StatusTodo)
	v.refresh()

	press(t, v, runeKey("e"))
	s.Delete(task.ID)
	v.editTitle.SetValue("Too late")
	msg := press(t, v, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, msg)
	assert.Equal(t, "Task no longer exists", v.status)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, v.visible)
}

func TestTaskList_ToggleCyclesStatus(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	task := addTask(s, "Cycle", models.PriorityLow, models.StatusTodo)
	v.refresh()

	want := []models.Status{models.StatusInProgress, models.StatusDone, models.StatusTodo}
	for _, st := range want {
		press(t, v, tea.KeyMsg{Type: tea.KeySpace})
		got, _ := s.Get(task.ID)
		assert.Equal(t, st, got.Status)
	}
}

func TestTaskList_DeleteConfirm(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	addTask(s, "Keep", models.PriorityLow, models.StatusTodo)
	v.refresh()

	press(t, v, runeKey("d"))
	require.True(t, v.confirmingDelete)
	assert.Contains(t, v.View(), "Keep")
	press(t, v, runeKey("n"))
	assert.False(t, v.confirmingDelete)
	assert.Equal(t, 1, s.Len())

	press(t, v, runeKey("d"))
	press(t, v, runeKey("y"))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "Task deleted", v.status)
	assert.Contains(t, v.View(), "No tasks yet")
}

func TestTaskList_DeleteFromDetail(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	addTask(s, "Inspect me", models.PriorityHigh, models.StatusTodo)
	v.refresh()

	press(t, v, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.viewingTask)
	assert.Contains(t, v.View(), "Inspect me")
	assert.Contains(t, v.View(), "March 1, 2026 at 9:01 AM")

	press(t, v, runeKey("d"))
	press(t, v, runeKey("y"))
	assert.False(t, v.viewingTask)
	assert.Equal(t, 0, s.Len())
}

func TestTaskList_FilterKeys(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	addTask(s, "a", models.PriorityLow, models.StatusTodo)
	addTask(s, "b", models.PriorityLow, models.StatusInProgress)
	addTask(s, "c", models.PriorityLow, models.StatusDone)
	v.refresh()

	press(t, v, runeKey("2"))
	assert.Equal(t, models.FilterTodo, v.filter)
	assert.Equal(t, []string{"a"}, titles(v.visible))

	press(t, v, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.FilterInProgress, v.filter)
	assert.Equal(t, []string{"b"}, titles(v.visible))

	press(t, v, tea.KeyMsg{Type: tea.KeyShiftTab})
	press(t, v, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, models.FilterAll, v.filter)
	assert.Equal(t, []string{"c", "b", "a"}, titles(v.visible))

	press(t, v, runeKey("4"))
	assert.Equal(t, []string{"c"}, titles(v.visible))
	press(t, v, runeKey("3"))
	s.Delete(v.visible[0].ID)
	v.refresh()
	assert.Contains(t, v.View(), "No in progress tasks.")
}

func TestTaskList_GroupedOrder(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{Grouped: true})
	addTask(s, "done 1", models.PriorityLow, models.StatusDone)
	addTask(s, "todo 1", models.PriorityLow, models.StatusTodo)
	addTask(s, "prog 1", models.PriorityLow, models.StatusInProgress)
	addTask(s, "todo 2", models.PriorityLow, models.StatusTodo)
	v.refresh()

	assert.Equal(t, []string{"todo 2", "todo 1", "prog 1", "done 1"}, titles(v.visible))
	assert.Contains(t, v.View(), "grouped")

	press(t, v, runeKey("g"))
	assert.Equal(t, []string{"todo 2", "prog 1", "todo 1", "done 1"}, titles(v.visible))
}

func TestTaskList_SortCycle(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	addTask(s, "low", models.PriorityLow, models.StatusTodo)
	addTask(s, "high", models.PriorityHigh, models.StatusTodo)
	addTask(s, "medium", models.PriorityMedium, models.StatusTodo)
	v.refresh()

	assert.Equal(t, []string{"medium", "high", "low"}, titles(v.visible))

	press(t, v, runeKey("o"))
	assert.Equal(t, models.SortOldest, v.sortBy)
	assert.Equal(t, []string{"low", "high", "medium"}, titles(v.visible))

	press(t, v, runeKey("o"))
	assert.Equal(t, models.SortPriority, v.sortBy)
	assert.Equal(t, []string{"high", "medium", "low"}, titles(v.visible))

	press(t, v, runeKey("o"))
	assert.Equal(t, models.SortNewest, v.sortBy)
}

func TestTaskList_CursorFollowsNewTask(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{Sort: models.SortOldest})
	addTask(s, "first", models.PriorityLow, models.StatusTodo)
	v.refresh()

	press(t, v, runeKey("n"))
	v.editTitle.SetValue("second")
	press(t, v, tea.KeyMsg{Type: tea.KeyCtrlS})

	task, ok := v.selected()
	require.True(t, ok)
	assert.Equal(t, "second", task.Title)
	assert.Equal(t, 1, v.cursor)
}

func TestTaskList_Navigation(t *testing.T) {
	v, s := newTestView(t, TaskListOptions{})
	addTask(s, "a", models.PriorityLow, models.StatusTodo)
	addTask(s, "b", models.PriorityLow, models.StatusTodo)
	v.refresh()

	press(t, v, runeKey("k"))
	assert.Equal(t, 0, v.cursor)
	press(t, v, runeKey("j"))
	press(t, v, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.cursor)
}

func TestTaskList_MissingTaskResult(t *testing.T) {
	v, _ := newTestView(t, TaskListOptions{})
	v.Update(taskMutatedMsg{op: store.OpToggle, id: "nope", found: false})
	assert.Equal(t, "Task no longer exists", v.status)
}

func TestTaskList_KeysWithoutTasks(t *testing.T) {
	v, _ := newTestView(t, TaskListOptions{})

	for _, k := range []tea.KeyMsg{runeKey("e"), runeKey("d"), runeKey("x"), {Type: tea.KeyEnter}} {
		assert.Nil(t, press(t, v, k))
	}
	assert.False(t, v.editing)
	assert.False(t, v.confirmingDelete)
	assert.False(t, v.viewingTask)
}

func TestTaskList_OpenSettingsAndQuit(t *testing.T) {
	v, _ := newTestView(t, TaskListOptions{})

	assert.Equal(t, OpenSettings{}, press(t, v, runeKey("s")))
	assert.Equal(t, tea.QuitMsg{}, press(t, v, runeKey("q")))
}

func TestTaskList_HelpPopup(t *testing.T) {
	v, _ := newTestView(t, TaskListOptions{})

	press(t, v, runeKey("?"))
	assert.Contains(t, v.View(), "Keyboard Shortcuts")

	// any key closes the popup without acting
	assert.Nil(t, press(t, v, runeKey("q")))
	assert.False(t, v.showHelpPopup)
}

func TestTaskList_HelpFollowsBindings(t *testing.T) {
	v, _ := newTestView(t, TaskListOptions{})
	assert.Contains(t, v.View(), "settings")

	v.keys.Settings.SetHelp("s", "preferences")
	assert.Contains(t, v.View(), "preferences")

	press(t, v, runeKey("?"))
	view := v.View()
	assert.Contains(t, view, "pick filter")
	assert.Contains(t, view, "group by status")
	assert.Contains(t, view, "preferences")
}

func TestTaskList_NarrowHelpHint(t *testing.T) {
	v, _ := newTestView(t, TaskListOptions{})
	v.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	assert.Contains(t, v.View(), "? help")
	assert.NotContains(t, v.View(), "settings")
}
