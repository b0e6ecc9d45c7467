package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/state"
)

const (
	PlaceHolderText = "1-4 to attack, /item <id>, /switch <n>, /run ..."
	hpBarWidth      = 20
)

type lineKind int

const (
	lineBattle lineKind = iota
	lineUser
	lineError
	lineInfo
)

type logLine struct {
	kind lineKind
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config         *ConsoleConfig
	client         *http.Client
	battle         *state.BattleState
	trainerSummary string
	lines          []logLine
	logViewport    viewport.Model
	metaViewport   viewport.Model
	textarea       textarea.Model
	ready          bool
	width          int
	height         int
	loading        bool

	// Event stream state
	events    chan SSEEvent
	ctx       context.Context
	cancel    context.CancelFunc
	lastEvent string

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type actionResponseMsg struct {
	response *BattleResponse
	healed   bool
	err      error
}

type sseEventMsg SSEEvent

type sseClosedMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	battleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, created *BattleResponse, trainerSummary string) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ctx, cancel := context.WithCancel(context.Background())
	m := ConsoleUI{
		config:         cfg,
		client:         client,
		battle:         created.Battle,
		trainerSummary: trainerSummary,
		textarea:       ta,
		logViewport:    logVp,
		metaViewport:   metaVp,
		events:         make(chan SSEEvent, 16),
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, line := range created.Battle.Log {
		m.lines = append(m.lines, logLine{kind: lineBattle, text: line})
	}
	return m
}

func hpBar(current, maxHP int) string {
	if maxHP <= 0 {
		return ""
	}
	filled := current * hpBarWidth / maxHP
	if current > 0 && filled == 0 {
		filled = 1
	}
	color := "46" // green
	switch {
	case current*5 <= maxHP:
		color = "196"
	case current*2 <= maxHP:
		color = "214"
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", hpBarWidth-filled)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(bar)
}

func writePokemon(content *strings.Builder, p *battle.Pokemon) {
	fmt.Fprintf(content, "%s Lv%d\n", p.Name, p.Level)
	fmt.Fprintf(content, "%s %d/%d\n", hpBar(p.CurrentHP, p.MaxHP), p.CurrentHP, p.MaxHP)
	if p.IsFainted {
		content.WriteString(errorStyle.Render("fainted") + "\n")
	} else if status := p.MajorStatus(); status != battle.StatusNone {
		content.WriteString(loadingStyle.Render(string(status)) + "\n")
	}
}

func writeMetadata(bs *state.BattleState, trainerSummary, lastEvent string) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("BATTLE") + "\n\n")

	fmt.Fprintf(&content, "ID: %s...\n", bs.ID.String()[:8])
	fmt.Fprintf(&content, "Turn: %d\n", bs.Turn)
	fmt.Fprintf(&content, "Outcome: %s\n\n", bs.Outcome)

	if trainerSummary != "" {
		content.WriteString(trainerSummary + "\n\n")
	}

	if bs.Enemy != nil {
		kind := "Trainer's"
		if bs.IsWild {
			kind = "Wild"
		}
		content.WriteString(kind + ":\n")
		writePokemon(&content, bs.Enemy)
		content.WriteString("\n")
	}

	if active := bs.Active(); active != nil {
		content.WriteString("Yours:\n")
		writePokemon(&content, active)
		for i, mv := range active.Moves {
			fmt.Fprintf(&content, "%d. %s (%s) %d/%d\n", i+1, mv.Name, mv.Type, mv.CurrentPP, mv.BasePP)
		}
		content.WriteString("\n")
	}

	if len(bs.Team) > 1 {
		content.WriteString("Team:\n")
		for i, p := range bs.Team {
			marker := " "
			if i == bs.ActiveIndex {
				marker = "▶"
			}
			fmt.Fprintf(&content, "%s%d %s %d/%d\n", marker, i+1, p.Name, p.CurrentHP, p.MaxHP)
		}
		content.WriteString("\n")
	}

	content.WriteString("Bag:\n")
	if len(bs.Inventory) == 0 {
		content.WriteString("Empty\n")
	}
	for _, item := range bs.Inventory {
		fmt.Fprintf(&content, "• %s x%d (%s)\n", item.Name, item.Quantity, item.ID)
	}

	if lastEvent != "" {
		content.WriteString("\nLast event:\n" + lastEvent + "\n")
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /copy: Copy log\n")

	return content.String()
}

// writeLogContent rebuilds the battle log for the current viewport width
func (m *ConsoleUI) writeLogContent() {
	width := m.logViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("POKÉQUEST") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(width-6, 1))) + "\n\n")

	for _, line := range m.lines {
		switch line.kind {
		case lineUser:
			content.WriteString(userStyle.Render("> ") + wordwrap.String(line.text, width-2) + "\n")
		case lineError:
			content.WriteString(errorStyle.Render(wordwrap.String("Error: "+line.text, width)) + "\n")
		case lineInfo:
			content.WriteString(wordwrap.String(line.text, width) + "\n")
		default:
			content.WriteString(battleStyle.Render(wordwrap.String(line.text, width)) + "\n")
		}
	}

	if m.loading {
		content.WriteString("\n" + m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) resize() {
	logWidth := int(float64(m.width)*0.65) - 4
	metaWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 5
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(logWidth - 4)
}

func (m *ConsoleUI) refreshMeta() {
	m.metaViewport.SetContent(writeMetadata(m.battle, m.trainerSummary, m.lastEvent))
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.listenEvents(), waitForEvent(m.events))
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeLogContent()
		m.refreshMeta()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}

			if handled, cmd := m.handleCommand(input); handled {
				m.writeLogContent()
				return m, cmd
			}

			m.lines = append(m.lines, logLine{kind: lineUser, text: input})
			m.loading = true
			m.progressTick = 0
			m.writeLogContent()
			return m, tea.Batch(m.sendAction(input), progressTick())
		}

	case actionResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.lines = append(m.lines, logLine{kind: lineError, text: msg.err.Error()})
		} else {
			m.battle = msg.response.Battle
			for _, line := range msg.response.Messages {
				m.lines = append(m.lines, logLine{kind: lineBattle, text: line})
			}
			if msg.healed {
				m.lines = append(m.lines, logLine{kind: lineInfo, text: "Your team was fully restored."})
			} else if m.battle.IsOver() {
				m.lines = append(m.lines, logLine{kind: lineInfo, text: "The battle is over. Type /heal to restore your team."})
			}
			m.refreshMeta()
		}
		m.writeLogContent()
		return m, nil

	case sseEventMsg:
		m.lastEvent = msg.Type
		if turn, ok := msg.Data["turn"].(float64); ok {
			m.lastEvent = fmt.Sprintf("%s (turn %d)", msg.Type, int(turn))
		}
		if outcome, ok := msg.Data["outcome"].(string); ok {
			m.lastEvent = fmt.Sprintf("%s (%s)", msg.Type, outcome)
		}
		m.refreshMeta()
		return m, waitForEvent(m.events)

	case sseClosedMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.lastEvent = "stream closed: " + msg.err.Error()
			m.refreshMeta()
		}
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeLogContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// handleCommand runs console-only commands. Everything else, including
// /item, /switch and /run, is a battle action for the API.
func (m *ConsoleUI) handleCommand(input string) (bool, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/help":
		helpText := `Commands:
• 1-4 - Attack with that move
• /item <id> - Use an item from the bag
• /switch <n> - Switch to team member n
• /run - Flee a wild battle
• /heal - Restore your team after the battle
• /copy - Copy the battle log to the clipboard
• Ctrl+C - Quit`
		m.lines = append(m.lines, logLine{kind: lineInfo, text: helpText})
		return true, nil

	case "/copy":
		var text strings.Builder
		for _, line := range m.lines {
			if line.kind == lineBattle {
				text.WriteString(line.text + "\n")
			}
		}
		if err := clipboard.WriteAll(text.String()); err != nil {
			m.lines = append(m.lines, logLine{kind: lineError, text: "copy failed: " + err.Error()})
		} else {
			m.lines = append(m.lines, logLine{kind: lineInfo, text: "Battle log copied to clipboard."})
		}
		return true, nil

	case "/heal":
		m.loading = true
		return true, tea.Batch(m.heal(), progressTick())
	}
	return false, nil
}

func (m ConsoleUI) sendAction(input string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendAction(m.client, m.config.APIBaseURL, m.battle.ID, input)
		return actionResponseMsg{response: resp, err: err}
	}
}

func (m ConsoleUI) heal() tea.Cmd {
	return func() tea.Msg {
		resp, err := healTeam(m.client, m.config.APIBaseURL, m.battle.ID)
		return actionResponseMsg{response: resp, healed: true, err: err}
	}
}

// listenEvents holds the SSE stream open until the program exits.
// The stream gets its own client since the API client has a timeout.
func (m ConsoleUI) listenEvents() tea.Cmd {
	return func() tea.Msg {
		err := listenToSSE(m.ctx, &http.Client{}, m.config.APIBaseURL, m.battle.ID, m.events)
		return sseClosedMsg{err}
	}
}

func waitForEvent(events <-chan SSEEvent) tea.Cmd {
	return func() tea.Msg {
		return sseEventMsg(<-events)
	}
}

func (m ConsoleUI) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m.quit()
		default:
			switch msg.String() {
			case "y", "Y":
				return m.quit()
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Battle?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave this battle?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.65) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(logWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar while a turn resolves
func (m ConsoleUI) renderProgressBar() string {
	usable := min(max(m.logViewport.Width-6, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := range usable {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
