package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationDialog asks before a record is deleted. No is preselected.
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
}

func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{Title: title, Message: message}
}

// Update moves the selection. It reports done once enter was pressed,
// with confirmed telling which button was chosen.
func (d *ConfirmationDialog) Update(msg tea.Msg) (done, confirmed bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, false
	}
	switch key.String() {
	case "left", "h":
		d.YesSelected = true
	case "right", "l":
		d.YesSelected = false
	case "y":
		return true, true
	case "n":
		return true, false
	case "enter":
		return true, d.YesSelected
	}
	return false, false
}

func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Delete")
	noButton := inactiveButtonStyle.Render("Cancel")
	if d.YesSelected {
		yesButton = activeButtonStyle.Render("Delete")
	} else {
		noButton = activeButtonStyle.Render("Cancel")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yesButton, "  ", noButton))
	b.WriteString(helpLine("←/→", "choose", "enter", "confirm", "esc", "cancel"))

	return boxStyle.Render(b.String())
}

// Row is one record in a screen's list
type Row struct {
	ID     string
	Name   string
	Detail string
	Flag   string
}

func (r Row) FilterValue() string { return r.Name }
func (r Row) Title() string       { return r.Name }
func (r Row) Description() string { return r.Detail }

// RowDelegate draws rows on two lines with an optional warning flag
type RowDelegate struct{}

func (d RowDelegate) Height() int                             { return 2 }
func (d RowDelegate) Spacing() int                            { return 1 }
func (d RowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d RowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(Row)
	if !ok {
		return
	}

	title := r.Name
	if r.Flag != "" {
		title += " " + warningStyle.Render(r.Flag)
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + title + "\n  " + mutedStyle.Render(r.Detail))
	} else {
		s = unselectedItemStyle.Render(title + "\n" + mutedStyle.Render(r.Detail))
	}
	_, _ = fmt.Fprint(w, s)
}

func newRowList(title string) list.Model {
	l := list.New([]list.Item{}, RowDelegate{}, 80, 20)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// Field is one input of a form
type Field struct {
	Key    string
	Label  string
	Secret bool
}

// Form is a column of text inputs, one focused at a time
type Form struct {
	Title  string
	fields []Field
	inputs []textinput.Model
	focus  int
}

func NewForm(title string, fields []Field, values map[string]string) Form {
	f := Form{Title: title, fields: fields}
	for i, field := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = field.Label
		in.CharLimit = 512
		if field.Secret {
			in.EchoMode = textinput.EchoPassword
		}
		in.SetValue(values[field.Key])
		if i == 0 {
			in.Focus()
		}
		f.inputs = append(f.inputs, in)
	}
	return f
}

// Focused is the key of the field being edited
func (f Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].Key
}

func (f Form) Value(key string) string {
	for i, field := range f.fields {
		if field.Key == key {
			return f.inputs[i].Value()
		}
	}
	return ""
}

// Values collects every input by key
func (f Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		out[field.Key] = f.inputs[i].Value()
	}
	return out
}

// Refresh overwrites the inputs that are not focused
func (f *Form) Refresh(values map[string]string) {
	for i, field := range f.fields {
		if i == f.focus {
			continue
		}
		if v, ok := values[field.Key]; ok && v != f.inputs[i].Value() {
			f.inputs[i].SetValue(v)
		}
	}
}

func (f *Form) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// Update feeds msg to the focused input. changed reports that its value
// was edited.
func (f *Form) Update(msg tea.Msg) (cmd tea.Cmd, changed bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.move(1)
			return nil, false
		case "shift+tab", "up":
			f.move(-1)
			return nil, false
		}
	}
	if len(f.inputs) == 0 {
		return nil, false
	}
	before := f.inputs[f.focus].Value()
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, f.inputs[f.focus].Value() != before
}

func (f Form) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.Title))
	b.WriteString("\n")
	for i, field := range f.fields {
		label := mutedStyle.Render(fmt.Sprintf("%-14s", field.Label))
		if i == f.focus {
			label = activeMenuStyle.Render(fmt.Sprintf("%-14s", field.Label))
		}
		b.WriteString(label + " " + f.inputs[i].View() + "\n")
	}
	return b.String()
}
