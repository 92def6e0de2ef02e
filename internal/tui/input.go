package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/teamwork/pkg/domain"
)

// maxInputLen is the maximum number of runes a form field accepts.
const maxInputLen = 254

// inputWidth is the visible width of a form field.
const inputWidth = 36

// formField is one labelled text input, keyed by its domain field name
// so validation errors can be matched to it.
type formField struct {
	key   string
	label string
	input textinput.Model
}

func newField(key, label, placeholder string, secret bool) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = maxInputLen
	ti.Width = inputWidth
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return formField{key: key, label: label, input: ti}
}

// form is an ordered set of fields with one focused at a time.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	f := form{fields: fields}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.fields {
		if j == i {
			cmd = f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	return cmd
}

func (f *form) next() tea.Cmd {
	return f.setFocus((f.focus + 1) % len(f.fields))
}

func (f *form) prev() tea.Cmd {
	return f.setFocus((f.focus - 1 + len(f.fields)) % len(f.fields))
}

func (f form) onLast() bool {
	return f.focus == len(f.fields)-1
}

func (f form) focusedKey() string {
	return f.fields[f.focus].key
}

// value returns the text of the field named key.
func (f form) value(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl.input.Value()
		}
	}
	return ""
}

// update feeds msg to the focused input and reports whether its text changed.
func (f *form) update(msg tea.Msg) (bool, tea.Cmd) {
	in := &f.fields[f.focus].input
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return in.Value() != before, cmd
}

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].input.Reset()
	}
	f.setFocus(0)
}

// view renders every field with its error, if any, underneath.
func (f form) view(errs domain.FieldErrors) string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := labelStyle.Render(fl.label)
		marker := "  "
		if i == f.focus {
			label = focusedLabelStyle.Render(fl.label)
			marker = accentStyle.Render("> ")
		}
		b.WriteString(label + "\n")
		b.WriteString(marker + fl.input.View() + "\n")
		if msg, ok := errs[fl.key]; ok {
			b.WriteString("  " + errorStyle.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
