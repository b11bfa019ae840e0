package loading

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	readyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type textMsg string

type hideMsg struct{}

// teaModel is the bubbletea model behind TeaDisplay.
type teaModel struct {
	text      string
	hidden    bool
	hint      string
	triggered chan<- struct{}
}

func (m teaModel) Init() tea.Cmd {
	return nil
}

func (m teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case textMsg:
		m.text = string(msg)
	case hideMsg:
		m.hidden = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			select {
			case m.triggered <- struct{}{}:
			default:
			}
		case tea.KeyCtrlC, tea.KeyEsc:
			m.hidden = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m teaModel) View() string {
	if m.hidden {
		return ""
	}
	style := progressStyle
	if m.text == ReadyText {
		style = readyStyle
	}
	view := style.Render(m.text)
	if m.hint != "" && m.text != ReadyText {
		view += "\n" + hintStyle.Render(m.hint)
	}
	return view + "\n"
}

// TeaDisplay renders through a bubbletea program. Run must be started
// before the first SetText; Hide quits the program.
type TeaDisplay struct {
	program   *tea.Program
	triggered chan struct{}
}

// NewTeaDisplay builds the program. hint is shown under the progress
// line until loading completes and may be empty.
func NewTeaDisplay(hint string, opts ...tea.ProgramOption) *TeaDisplay {
	triggered := make(chan struct{}, 1)
	model := teaModel{
		hint:      hint,
		triggered: triggered,
	}
	return &TeaDisplay{
		program:   tea.NewProgram(model, opts...),
		triggered: triggered,
	}
}

// Run blocks until the display is hidden or the user quits.
func (d *TeaDisplay) Run() error {
	_, err := d.program.Run()
	return err
}

// Triggered receives when the user presses Enter.
func (d *TeaDisplay) Triggered() <-chan struct{} {
	return d.triggered
}

func (d *TeaDisplay) SetText(text string) {
	d.program.Send(textMsg(text))
}

func (d *TeaDisplay) Hide() {
	d.program.Send(hideMsg{})
}

// Quit stops the program without waiting for Hide.
func (d *TeaDisplay) Quit() {
	d.program.Quit()
}
