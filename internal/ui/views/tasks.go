package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/ui/keys"
	"github.com/tgienger/tick/internal/ui/styles"
	"github.com/tgienger/tick/internal/validate"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// TaskListOptions configures the initial list presentation
type TaskListOptions struct {
	Sort    models.SortOption
	Grouped bool
	Logger  *log.Logger
}

// TaskListView shows the task collection
type TaskListView struct {
	tracker *store.Tracker
	styles  *styles.Styles
	keys    keys.KeyMap
	logger  *log.Logger

	width  int
	height int

	// List state
	filter  models.StatusFilter
	sortBy  models.SortOption
	grouped bool
	visible []models.Task // tasks in display order
	cursor  int
	scrollY int
	status  string // one-line feedback under the list

	// Task creation/editing
	editing        bool
	editingID      string // empty for a new task
	editTitle      textinput.Model
	editDesc       textarea.Model
	editPriority   int // index into models.Priorities
	editStatus     int // index into models.Statuses
	editFocusIdx   int // 0=title, 1=desc, 2=priority, 3=status, 4=save
	editErrors     validate.Errors
	editShowErrors bool

	// Task detail view
	viewingTask bool
	viewingID   string

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(tracker *store.Tracker, s *styles.Styles, opts TaskListOptions) *TaskListView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = validate.MaxTitleLength + 50

	editDesc := textarea.New()
	editDesc.Placeholder = "Description (optional)"
	editDesc.CharLimit = validate.MaxDescriptionLength + 100
	editDesc.SetWidth(50)
	editDesc.SetHeight(4)
	editDesc.ShowLineNumbers = false

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sortBy := opts.Sort
	if sortBy == "" {
		sortBy = models.SortNewest
	}

	v := &TaskListView{
		tracker:   tracker,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		logger:    logger,
		filter:    models.FilterAll,
		sortBy:    sortBy,
		grouped:   opts.Grouped,
		editTitle: editTitle,
		editDesc:  editDesc,
	}
	v.refresh()
	return v
}

// OpenSettings signals to switch to the settings view
type OpenSettings struct{}

// taskMutatedMsg reports a finished store call
type taskMutatedMsg struct {
	op    store.Op
	id    string
	found bool
	err   error
}

// SetStyles swaps the styles after a theme change
func (v *TaskListView) SetStyles(s *styles.Styles) {
	v.styles = s
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	v.refresh()
	return nil
}

// refresh recomputes the visible tasks from the store
func (v *TaskListView) refresh() {
	s := v.tracker.Store()

	if v.showGroups() {
		groups := s.GroupByStatus()
		var visible []models.Task
		for _, st := range models.Statuses {
			visible = append(visible, store.Sorted(groups[st], v.sortBy)...)
		}
		v.visible = visible
	} else {
		v.visible = store.Sorted(s.FilterByStatus(v.filter), v.sortBy)
	}

	if v.cursor >= len(v.visible) {
		v.cursor = max(0, len(v.visible)-1)
	}
	v.ensureVisible()
}

func (v *TaskListView) showGroups() bool {
	return v.grouped && v.filter == models.FilterAll
}

func (v *TaskListView) selected() (models.Task, bool) {
	if len(v.visible) == 0 || v.cursor >= len(v.visible) {
		return models.Task{}, false
	}
	return v.visible[v.cursor], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.ensureVisible()
		return v, nil

	case taskMutatedMsg:
		return v, v.handleMutated(msg)

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) handleMutated(msg taskMutatedMsg) tea.Cmd {
	switch {
	case msg.err != nil:
		v.logger.Error("task operation failed", "op", msg.op, "id", msg.id, "err", msg.err)
		v.status = fmt.Sprintf("Could not %s task: %v", msg.op, msg.err)
	case !msg.found:
		v.logger.Warn("task operation on missing task", "op", msg.op, "id", msg.id)
		v.status = "Task no longer exists"
		if v.viewingID == msg.id {
			v.viewingTask = false
			v.viewingID = ""
		}
	default:
		switch msg.op {
		case store.OpCreate:
			v.status = "Task created"
			v.moveCursorTo(msg.id)
		case store.OpUpdate:
			v.status = "Task updated"
		case store.OpDelete:
			v.status = "Task deleted"
			if v.viewingID == msg.id {
				v.viewingTask = false
				v.viewingID = ""
			}
		case store.OpToggle:
			v.status = ""
		}
	}
	v.refresh()
	return nil
}

func (v *TaskListView) moveCursorTo(id string) {
	v.refresh()
	for i, t := range v.visible {
		if t.ID == id {
			v.cursor = i
			v.ensureVisible()
			return
		}
	}
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visible)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Filter):
		v.cycleFilter(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFilter(-1)
		return v, nil

	case key.Matches(msg, v.keys.PickFilter):
		v.setFilter(models.Filters[msg.String()[0]-'1'])
		return v, nil

	case key.Matches(msg, v.keys.Sort):
		v.sortBy = nextSort(v.sortBy)
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keys.Group):
		v.grouped = !v.grouped
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if task, ok := v.selected(); ok {
			v.viewingTask = true
			v.viewingID = task.ID
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if task, ok := v.selected(); ok {
			return v, v.toggleCmd(task.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selected(); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.askDelete(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Settings):
		return v, func() tea.Msg { return OpenSettings{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) cycleFilter(dir int) {
	n := len(models.Filters)
	for i, f := range models.Filters {
		if f == v.filter {
			v.setFilter(models.Filters[(i+dir+n)%n])
			return
		}
	}
	v.setFilter(models.FilterAll)
}

func (v *TaskListView) setFilter(f models.StatusFilter) {
	v.filter = f
	v.cursor = 0
	v.scrollY = 0
	v.refresh()
}

func nextSort(cur models.SortOption) models.SortOption {
	for i, o := range models.SortOptions {
		if o == cur {
			return models.SortOptions[(i+1)%len(models.SortOptions)]
		}
	}
	return models.SortNewest
}

func (v *TaskListView) askDelete(task models.Task) {
	v.confirmingDelete = true
	v.deleteTargetID = task.ID
	v.deleteTargetName = task.Title
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		return v, v.deleteCmd(v.deleteTargetID)
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := v.tracker.Store().Get(v.viewingID)
	if !ok {
		v.viewingTask = false
		v.viewingID = ""
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		v.viewingID = ""
		return v, nil
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.startEditTask(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.askDelete(task)
		return v, nil
	case key.Matches(msg, v.keys.Toggle):
		return v, v.toggleCmd(task.ID)
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, found, err := v.tracker.Toggle(context.Background(), id)
		return taskMutatedMsg{op: store.OpToggle, id: id, found: found, err: err}
	}
}

func (v *TaskListView) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		found, err := v.tracker.Delete(context.Background(), id)
		return taskMutatedMsg{op: store.OpDelete, id: id, found: found, err: err}
	}
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// visibleItems is how many two-line task rows fit on screen
func (v *TaskListView) visibleItems() int {
	availableHeight := v.height - 10
	if v.showGroups() {
		// room for the group headers
		availableHeight -= 2 * len(models.Statuses)
	}
	if availableHeight < 2 {
		availableHeight = 2
	}
	return max(availableHeight/2, 1)
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(v.renderTaskList())

	if v.status != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.StatusBar.Render(v.status))
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	counts := v.tracker.Store().Counts()
	total := v.tracker.Store().Len()

	var tabs []string
	for _, f := range models.Filters {
		n := total
		if f != models.FilterAll {
			n = counts[models.Status(f)]
		}
		style := s.Tab
		if f == v.filter {
			style = s.TabActive
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%s %d", f.Label(), n)))
	}

	titleText := "Tasks"
	if v.busy() {
		titleText += s.TitleMuted.Render("  saving…")
	}

	info := fmt.Sprintf("sort: %s", v.sortBy)
	if v.filter == models.FilterAll {
		if v.grouped {
			info += " • grouped"
		} else {
			info += " • flat"
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(titleText),
		lipgloss.JoinHorizontal(lipgloss.Center, tabs...),
		s.TitleMuted.Render(info),
	)
}

func (v *TaskListView) busy() bool {
	for _, op := range []store.Op{store.OpCreate, store.OpUpdate, store.OpDelete, store.OpToggle} {
		if v.tracker.Busy(op) {
			return true
		}
	}
	return false
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.visible) == 0 {
		return s.TitleMuted.Render(v.emptyText())
	}

	endIdx := min(v.scrollY+v.visibleItems(), len(v.visible))

	var items []string
	var lastStatus models.Status
	for i := v.scrollY; i < endIdx; i++ {
		task := v.visible[i]
		if v.showGroups() && (i == v.scrollY || task.Status != lastStatus) {
			items = append(items, v.renderGroupHeader(task.Status))
		}
		lastStatus = task.Status
		items = append(items, v.renderTaskItem(task, i == v.cursor))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) emptyText() string {
	if v.tracker.Store().Len() == 0 {
		return "No tasks yet. Press 'n' to create one."
	}
	return fmt.Sprintf("No %s tasks.", strings.ToLower(v.filter.Label()))
}

func (v *TaskListView) renderGroupHeader(status models.Status) string {
	n := v.tracker.Store().Counts()[status]
	return v.styles.GroupHeader.
		Foreground(v.styles.StatusColor(status)).
		Render(fmt.Sprintf("%s (%d)", status.Label(), n))
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	titleLine := styles.StatusIcon(task.Status) + " " + task.Title
	if v.tracker.BusyTask(task.ID) {
		titleLine += " …"
	}

	priority := lipgloss.NewStyle().Foreground(s.PriorityColor(task.Priority)).Render(task.Priority.Label())
	status := lipgloss.NewStyle().Foreground(s.StatusColor(task.Status)).Render(task.Status.Label())
	metaLine := priority + " • " + status + " • " + s.TitleMuted.Render(task.CreatedAt.Format("Jan 2 15:04"))

	var titleStyle, metaStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		metaStyle = s.ListSelected.Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		metaStyle = s.ListItem.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(titleLine), metaStyle.Render(metaLine)) + "\n"
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return helpBar(v.styles, v.keys.Help)
	}

	k := v.keys
	return helpBar(v.styles,
		relabel(k.Enter, "↵", "view"),
		relabel(k.Toggle, "space", "status"),
		relabel(k.New, "n", "new"),
		relabel(k.Edit, "e", "edit"),
		relabel(k.Delete, "d", "del"),
		relabel(k.Tab, "tab", "filter"),
		relabel(k.Sort, "o", "sort"),
		relabel(k.Group, "g", "group"),
		k.Settings,
		k.Quit,
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	k := v.keys

	helpItems := helpLines(s,
		relabel(k.Enter, "↵", "view task"),
		k.Toggle, k.New, k.Edit, k.Delete,
		k.Tab, k.PickFilter, k.Sort, k.Group,
		k.Settings, k.Quit,
	)
	helpItems = append(helpItems, "", s.TitleMuted.Render("Press any key to close"))

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Are you sure you want to delete %q?", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.tracker.Store().Get(v.viewingID)
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	labelStyle := s.TitleMuted

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description provided")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		"",
		labelStyle.Render("Status"),
		lipgloss.NewStyle().Foreground(s.StatusColor(task.Status)).Render(styles.StatusIcon(task.Status)+" "+task.Status.Label()),
		"",
		labelStyle.Render("Priority"),
		lipgloss.NewStyle().Foreground(s.PriorityColor(task.Priority)).Bold(true).Render(task.Priority.Label()),
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render("Created"),
		formatDate(task.CreatedAt),
		"",
		helpBar(s,
			relabel(v.keys.Toggle, "space", "status"),
			relabel(v.keys.Edit, "e", "edit"),
			relabel(v.keys.Delete, "d", "delete"),
			v.keys.Back,
		),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
