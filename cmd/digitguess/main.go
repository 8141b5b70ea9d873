// Command digitguess plays a duel against the computer opponent in the
// terminal, no server required.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"svw.info/digitguess/internal/config"
	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/engine"
)

type phase int

const (
	phaseSecret phase = iota // waiting for the player's secret
	phaseGuess               // waiting for the player's guess
	phaseThink               // computer "thinking" pause
	phaseDone
)

// thinkDoneMsg fires when the computer's thinking pause elapses.
type thinkDoneMsg struct{}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	colStyle    = lipgloss.NewStyle().Width(32).PaddingRight(2)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

type model struct {
	rules  domain.Rules
	seed   int64
	match  *engine.Match
	input  textinput.Model
	phase  phase
	status string
	errMsg string

	humanLog    []string
	computerLog []string
}

func newModel(rules domain.Rules, seed int64) model {
	ti := textinput.New()
	ti.Placeholder = strings.Repeat("0", rules.Length)
	ti.CharLimit = rules.Length
	ti.Width = rules.Length + 4
	ti.Focus()
	return model{
		rules:  rules,
		seed:   seed,
		input:  ti,
		phase:  phaseSecret,
		status: fmt.Sprintf("pick your secret (%d digits, enter for random)", rules.Length),
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case thinkDoneMsg:
		return m.computerTurn()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.errMsg = ""
	switch m.phase {
	case phaseSecret:
		match, err := engine.New(m.rules, domain.Code(text), m.seed, discardLogger())
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.match = match
		m.phase = phaseGuess
		m.status = "your turn"
		return m, nil
	case phaseGuess:
		fb, err := m.match.HumanGuess(domain.Code(text))
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.humanLog = append(m.humanLog, fmt.Sprintf("%s  %s", text, fbText(fb)))
		if m.match.State() != domain.Active {
			return m.finish(), nil
		}
		m.phase = phaseThink
		m.status = "computer is thinking…"
		delay := m.match.ThinkDelay()
		return m, tea.Tick(delay, func(time.Time) tea.Msg { return thinkDoneMsg{} })
	case phaseDone:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) computerTurn() (tea.Model, tea.Cmd) {
	turn, _, err := m.match.ComputerTurn(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		m.phase = phaseGuess
		return m, nil
	}
	m.computerLog = append(m.computerLog, fmt.Sprintf("%s  %s", turn.Guess, fbText(turn.Feedback)))
	if m.match.State() != domain.Active {
		return m.finish(), nil
	}
	m.phase = phaseGuess
	m.status = "your turn"
	return m, nil
}

func (m model) finish() model {
	m.phase = phaseDone
	switch m.match.State() {
	case domain.HumanWon:
		m.status = "you won!"
	case domain.ComputerWon:
		m.status = fmt.Sprintf("the computer won — your number was %s, its number was %s",
			m.match.HumanSecret(), m.match.ComputerSecret())
	default:
		m.status = fmt.Sprintf("draw — the computer's number was %s", m.match.ComputerSecret())
	}
	m.status += "  (enter to quit)"
	return m
}

func fbText(fb domain.Feedback) string {
	switch fb.Kind {
	case domain.ExactMatch:
		return "exact!"
	case domain.AllCorrectWrongOrder:
		return "all digits, wrong order"
	case domain.NoneCorrect:
		return "none"
	default:
		return fmt.Sprintf("%d right", fb.Matched)
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("digitguess") + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d digits · repeats %v · %s",
		m.rules.Length, m.rules.AllowRepeats, m.rules.Difficulty)) + "\n\n")

	if m.match != nil {
		human := "You\n" + strings.Join(m.humanLog, "\n")
		computer := "Computer\n" + strings.Join(m.computerLog, "\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			colStyle.Render(human), colStyle.Render(computer)))
		b.WriteString("\n\n")
	}
	b.WriteString(statusStyle.Render(m.status) + "\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	if m.phase == phaseSecret || m.phase == phaseGuess {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(dimStyle.Render("esc to quit") + "\n")
	return b.String()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func main() {
	length := flag.Int("length", 4, "digits per code (3-10)")
	repeats := flag.Bool("repeats", false, "allow repeated digits")
	diffStr := flag.String("difficulty", "medium", "easy|medium|hard")
	limit := flag.Int("limit", 0, "guess limit per side (0 = unlimited)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	diff, err := config.ParseDifficulty(*diffStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rules := domain.Rules{Length: *length, AllowRepeats: *repeats, Difficulty: diff, GuessLimit: *limit}
	if err := rules.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	if _, err := tea.NewProgram(newModel(rules, *seed)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
