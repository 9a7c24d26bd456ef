package tui

import (
	"strings"

	"simplecrm/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Form field order mirrors the stored column order.
var formLabels = []string{"Name", "Email", "Phone", "Company", "Tags", "Notes"}

// contactForm is the modal add/edit form: one text input per mutable field.
type contactForm struct {
	title  string
	inputs []textinput.Model
	focus  int
	errMsg string // last validation error from the store, shown inline
}

// newContactForm builds a form pre-filled with initial values. The first
// field starts focused.
func newContactForm(title string, initial models.ContactFields) contactForm {
	values := []string{
		initial.Name,
		initial.Email,
		initial.Phone,
		initial.Company,
		initial.Tags,
		initial.Notes,
	}

	inputs := make([]textinput.Model, len(formLabels))
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[0].Focus()

	return contactForm{title: title, inputs: inputs}
}

// fields collects the current input values into a ContactFields.
func (f contactForm) fields() models.ContactFields {
	return models.ContactFields{
		Name:    f.inputs[0].Value(),
		Email:   f.inputs[1].Value(),
		Phone:   f.inputs[2].Value(),
		Company: f.inputs[3].Value(),
		Tags:    f.inputs[4].Value(),
		Notes:   f.inputs[5].Value(),
	}
}

// focusField moves focus to input i, blurring the rest.
func (f contactForm) focusField(i int) contactForm {
	if i < 0 {
		i = len(f.inputs) - 1
	}
	if i >= len(f.inputs) {
		i = 0
	}
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focus = i
	return f
}

func (f contactForm) next() contactForm { return f.focusField(f.focus + 1) }
func (f contactForm) prev() contactForm { return f.focusField(f.focus - 1) }

// Update forwards a message to the focused input.
func (f contactForm) Update(msg tea.Msg) (contactForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the form with labels, the focused-field marker and any
// pending validation error.
func (f contactForm) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n\n")

	for i, label := range formLabels {
		marker := "  "
		if i == f.focus {
			marker = focusedStyle.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(labelStyle.Render(label))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(formErrStyle.Render(f.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}
