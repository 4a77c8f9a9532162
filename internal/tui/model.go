package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pdfrag/internal/domain"
	"pdfrag/internal/textutil"
)

// RAGPort is the TUI-facing subset of the RAG service.
type RAGPort interface {
	Query(ctx context.Context, text string) (*domain.QueryResult, error)
}

// Model is the Bubble Tea model for the interactive chat.
type Model struct {
	service   RAGPort
	input     textinput.Model
	viewport  viewport.Model
	result    *domain.QueryResult
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(service RAGPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, status: "Ready. Ask about your documents."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around answer and query boxes
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.Query(context.Background(), q)
				switch {
				case err == domain.ErrNoIndex:
					m.status = "No index available. Add PDFs and run `pdfrag index` first."
					m.result = nil
				case err != nil:
					m.status = "Error: " + err.Error()
					m.result = nil
				default:
					m.status = fmt.Sprintf("Answered %q from %d sources", q, len(res.Sources))
					m.result = res
					m.cursor = 0
					m.lastQuery = q
				}
				m.viewport.SetContent(m.renderResult())
				m.input.SetValue("")
				return m, nil
			}
		case "down":
			if m.result != nil && len(m.result.Sources) > 0 {
				m.cursor = (m.cursor + 1) % len(m.result.Sources)
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "up":
			if m.result != nil && len(m.result.Sources) > 0 {
				m.cursor = (m.cursor - 1 + len(m.result.Sources)) % len(m.result.Sources)
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("PDF RAG")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	answer := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No answer yet."
	}
	var b strings.Builder
	b.WriteString(m.result.Response)
	if len(m.result.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(sourceHeaderStyle.Render("Sources (up/down to browse)"))
		for i, src := range m.result.Sources {
			marker := "  "
			if i == m.cursor {
				marker = "> "
			}
			fmt.Fprintf(&b, "\n%s%d. %s", marker, i+1, sourceName(src))
		}
		selected := m.result.Sources[m.cursor]
		b.WriteString("\n\n")
		b.WriteString(sourcePreview(selected.Text, m.lastQuery))
	}
	return b.String()
}

func sourceName(src domain.Source) string {
	name := src.Metadata.Source
	if name == "" {
		name = "unknown"
	}
	if title := src.Metadata.Extra["title"]; title != "" {
		return name + " - " + title
	}
	return name
}

var (
	answerBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceHeaderStyle = lipgloss.NewStyle().Bold(true)
	highlightStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe        = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// sourcePreview renders the chunk text with its closest-matching
// section, if the chunk carries headings, and the best sentence
// highlighted.
func sourcePreview(text, query string) string {
	sections := textutil.SplitSections(text)
	if len(sections) <= 1 {
		return highlightBestSentence(text, query)
	}
	qTokens := toTokenSet(query)
	bestIdx := 0
	bestScore := -1
	for i, sec := range sections {
		score := tokenOverlapScore(qTokens, sec.Content)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	best := sections[bestIdx]
	return sourceHeaderStyle.Render(best.Title) + "\n" + highlightBestSentence(best.Content, query)
}

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
