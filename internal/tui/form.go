package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-fin/tally/internal/browse"
	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/tui/themes"
)

const (
	fieldAmount = iota
	fieldCategory
	fieldDate
	fieldNote
	fieldCount
)

// entryForm is the shared input form for adding a transaction and for
// inline row edits. Amount stays raw text until submit; validation happens
// in the controller, not here.
type entryForm struct {
	inputs []textinput.Model
	txType model.TxType
	focus  int
}

func newEntryForm(theme themes.Theme) entryForm {
	labels := [fieldCount]string{"amount", "category", "date (YYYY-MM-DD)", "note"}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.Prompt = "> "
		in.TextStyle = theme.Normal
		in.CharLimit = 64
		inputs[i] = in
	}
	inputs[fieldAmount].Focus()

	return entryForm{inputs: inputs, txType: model.TypeExpense}
}

// seed fills the form from an edit draft.
func (f *entryForm) seed(d browse.Draft) {
	f.inputs[fieldAmount].SetValue(d.Amount)
	f.inputs[fieldCategory].SetValue(d.Category)
	f.inputs[fieldDate].SetValue(d.Date)
	f.inputs[fieldNote].SetValue(d.Note)
	if d.Type.Valid() {
		f.txType = d.Type
	}
	f.setFocus(fieldAmount)
}

// reset clears the form for a fresh add, defaulting the date to today.
func (f *entryForm) reset(now time.Time) {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.inputs[fieldDate].SetValue(now.Format("2006-01-02"))
	f.txType = model.TypeExpense
	f.setFocus(fieldAmount)
}

func (f *entryForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *entryForm) nextField() { f.setFocus((f.focus + 1) % fieldCount) }
func (f *entryForm) prevField() { f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

func (f *entryForm) toggleType() {
	if f.txType == model.TypeExpense {
		f.txType = model.TypeIncome
	} else {
		f.txType = model.TypeExpense
	}
}

// Update forwards input to the focused field.
func (f entryForm) Update(msg tea.Msg) (entryForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// draft snapshots the form as an edit draft.
func (f entryForm) draft() browse.Draft {
	return browse.Draft{
		Amount:   strings.TrimSpace(f.inputs[fieldAmount].Value()),
		Category: strings.TrimSpace(f.inputs[fieldCategory].Value()),
		Date:     strings.TrimSpace(f.inputs[fieldDate].Value()),
		Note:     strings.TrimSpace(f.inputs[fieldNote].Value()),
		Type:     f.txType,
	}
}

// transactionDraft validates the form into a creatable draft.
func (f entryForm) transactionDraft() (model.TransactionDraft, error) {
	d := f.draft()

	amount, err := model.ParseAmount(d.Amount)
	if err != nil {
		return model.TransactionDraft{}, common.NewValidationError("amount", err.Error())
	}

	date := time.Now().UTC()
	if d.Date != "" {
		parsed, perr := time.Parse("2006-01-02", d.Date)
		if perr != nil {
			return model.TransactionDraft{}, common.NewValidationError("date", "expected YYYY-MM-DD")
		}
		date = parsed
	}

	draft := model.TransactionDraft{
		Type:     f.txType,
		Amount:   amount,
		Category: d.Category,
		Note:     d.Note,
		Date:     date,
	}
	return draft, draft.Validate()
}

// view renders the form inside a rounded box.
func (f entryForm) view(theme themes.Theme, title string) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("type: %s  (ctrl+t to toggle)\n\n", theme.Bold.Render(string(f.txType))))

	labels := [fieldCount]string{"Amount", "Category", "Date", "Note"}
	for i, in := range f.inputs {
		label := labels[i]
		if i == f.focus {
			label = theme.Selected.Render(label)
		} else {
			label = theme.Subtitle.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n", label, in.View()))
	}

	b.WriteString("\n" + theme.Italic.Render("enter save · tab next field · esc cancel"))
	return theme.RoundedBox.Render(b.String())
}
