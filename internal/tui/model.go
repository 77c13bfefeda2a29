// Package tui is the full-screen terminal interface: a topic list and a
// lesson view with the sample data, the example result and a query editor.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
)

const (
	defaultWidth  = 100
	defaultHeight = 40
	editorHeight  = 5
)

type screen int

const (
	topicScreen screen = iota
	lessonScreen
)

type topicItem struct {
	topic catalog.Topic
}

func (i topicItem) Title() string { return i.topic.ID }

func (i topicItem) Description() string {
	switch {
	case i.topic.Quiz:
		return "quiz: " + i.topic.Challenge
	case i.topic.MultiTable:
		return "Customers + Orders"
	default:
		return "Customers"
	}
}

func (i topicItem) FilterValue() string { return i.topic.ID }

type previewMsg struct {
	preview *lesson.Preview
	err     error
}

type resultMsg struct {
	result *lesson.Result
	err    error
}

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	sess   *lesson.Session
	keys   keyMap
	styles output.Styles

	topics  list.Model
	editor  textarea.Model
	content viewport.Model
	help    help.Model

	screen  screen
	width   int
	height  int
	busy    bool
	preview *lesson.Preview
	result  *lesson.Result
	err     error
}

// New returns a model driving sess. The session is not closed by the model.
func New(ctx context.Context, sess *lesson.Session) Model {
	items := make([]list.Item, 0, len(catalog.Topics()))
	for _, t := range catalog.Topics() {
		items = append(items, topicItem{topic: t})
	}
	l := list.New(items, list.NewDefaultDelegate(), defaultWidth, defaultHeight-4)
	l.Title = "SQL topics"

	ta := textarea.New()
	ta.Placeholder = "Write your SQL here..."
	ta.CharLimit = 5000
	ta.ShowLineNumbers = true
	ta.SetHeight(editorHeight)

	m := Model{
		ctx:     ctx,
		sess:    sess,
		keys:    keys,
		styles:  output.NewStyles(lipgloss.DefaultRenderer()),
		topics:  l,
		editor:  ta,
		content: viewport.New(defaultWidth, defaultHeight-editorHeight-8),
		help:    help.New(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.layout()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case previewMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.preview = msg.preview
		m.result = nil
		if m.screen != lessonScreen {
			m.screen = lessonScreen
			m.editor.SetValue(catalog.DefaultQuery)
		}
		m.refresh()
		m.content.GotoTop()
		return m, m.editor.Focus()

	case resultMsg:
		m.busy = false
		m.err = msg.err
		m.result = msg.result
		m.refresh()
		m.content.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		if m.screen == topicScreen {
			return m.updateTopics(msg)
		}
		return m.updateLesson(msg)
	}

	return m, nil
}

func (m Model) updateTopics(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Open) && m.topics.FilterState() != list.Filtering {
		item, ok := m.topics.SelectedItem().(topicItem)
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.selectTopic(item.topic.ID)
	}

	var cmd tea.Cmd
	m.topics, cmd = m.topics.Update(msg)
	return m, cmd
}

func (m Model) updateLesson(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = topicScreen
		m.editor.Blur()
		m.err = nil
		return m, nil

	case key.Matches(msg, m.keys.Run):
		query := m.editor.Value()
		if strings.TrimSpace(query) == "" {
			return m, nil
		}
		m.busy = true
		return m, m.runQuery(query)

	case key.Matches(msg, m.keys.Regen):
		m.busy = true
		return m, m.regenerate()

	case key.Matches(msg, m.keys.PageUp):
		m.content.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.content.PageDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) selectTopic(id string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.sess.Select(m.ctx, id)
		return previewMsg{preview: p, err: err}
	}
}

func (m Model) regenerate() tea.Cmd {
	return func() tea.Msg {
		p, err := m.sess.Regenerate(m.ctx)
		return previewMsg{preview: p, err: err}
	}
}

func (m Model) runQuery(query string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.sess.Run(m.ctx, query)
		return resultMsg{result: res, err: err}
	}
}

func (m *Model) layout() {
	w := max(m.width-4, 20)
	m.topics.SetSize(w, max(m.height-4, 5))
	m.editor.SetWidth(w - 4)
	m.content.Width = w
	m.content.Height = max(m.height-editorHeight-9, 3)
	m.help.Width = w
	m.refresh()
}

// refresh renders the lesson into the viewport.
func (m *Model) refresh() {
	if m.preview == nil {
		m.content.SetContent("")
		return
	}
	m.content.SetContent(renderLesson(m.styles, m.preview, m.result))
}

// View implements tea.Model.
func (m Model) View() string {
	var sections []string

	if m.screen == topicScreen {
		sections = append(sections, m.topics.View())
	} else {
		sections = append(sections,
			titleStyle.Render(m.lessonTitle()),
			m.content.View(),
			editorStyle.Render(m.editor.View()),
		)
	}

	switch {
	case m.err != nil:
		sections = append(sections, errorStyle.Render("✗ "+m.err.Error()))
	case m.busy:
		sections = append(sections, statusStyle.Render("Working..."))
	}

	if m.screen == lessonScreen {
		sections = append(sections, m.help.ShortHelpView(m.keys.lessonHelp()))
	}

	return appStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) lessonTitle() string {
	if m.preview == nil {
		return "SQLClass"
	}
	if m.preview.Topic != nil {
		return fmt.Sprintf("SQLClass · %s", m.preview.Topic.Title)
	}
	return fmt.Sprintf("SQLClass · %s", m.preview.TopicID)
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, sess *lesson.Session) error {
	p := tea.NewProgram(New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
