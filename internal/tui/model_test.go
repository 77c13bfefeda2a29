package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/sqlclass/internal/dataset"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/internal/sandbox"
	"github.com/leapstack-labs/sqlclass/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) (Model, *lesson.Session) {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	gen := dataset.NewGenerator(dataset.WithSeed(3), dataset.WithLogger(logger))
	sess := lesson.New(gen, sandbox.New(sandbox.Options{}), lesson.WithLogger(logger))
	t.Cleanup(func() { _ = sess.Close() })
	return New(context.Background(), sess), sess
}

// press sends a key and runs the resulting command synchronously, feeding
// its message back into the model.
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case previewMsg, resultMsg:
		next, _ = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_StartsOnTopicList(t *testing.T) {
	m, _ := newModel(t)

	assert.Equal(t, topicScreen, m.screen)
	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "SQL topics")
	assert.Len(t, m.topics.Items(), 19)
}

func TestModel_OpenTopic(t *testing.T) {
	m, sess := newModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, lessonScreen, m.screen)
	assert.False(t, m.busy)
	require.NotNil(t, m.preview)
	assert.Equal(t, "SELECT", m.preview.TopicID)
	assert.Equal(t, lesson.AwaitingInput, sess.State())
	assert.Equal(t, "SELECT * FROM Customers;", m.editor.Value())
	assert.Contains(t, m.View(), "SQLClass · SELECT")
}

func TestModel_RunQuery(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	require.NotNil(t, m.result)
	assert.True(t, m.result.OK())
	assert.Equal(t, dataset.CustomerCount, m.result.Table.RowCount())
}

func TestModel_RunInvalidQuery(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.editor.SetValue("SELEC nonsense;")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	require.NotNil(t, m.result)
	assert.False(t, m.result.OK())
	assert.Contains(t, renderLesson(m.styles, m.preview, m.result), "✗")
}

func TestModel_BlankQueryIsIgnored(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.editor.SetValue("   ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Nil(t, cmd)
	assert.False(t, next.(Model).busy)
}

func TestModel_Regenerate(t *testing.T) {
	m, sess := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	before := sess.Store()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})

	assert.NotSame(t, before, sess.Store())
	assert.Equal(t, lessonScreen, m.screen)
	assert.Nil(t, m.result)
}

func TestModel_BackToTopics(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, topicScreen, m.screen)
	assert.False(t, m.editor.Focused())
}

func TestModel_IgnoresKeysWhileBusy(t *testing.T) {
	m, _ := newModel(t)
	m.busy = true

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, topicScreen, next.(Model).screen)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = next.(Model)

	assert.Equal(t, 60, m.width)
	assert.Equal(t, 56, m.topics.Width())
}

func TestModel_PreviewError(t *testing.T) {
	m, _ := newModel(t)

	next, _ := m.Update(previewMsg{err: assert.AnError})
	m = next.(Model)

	assert.Equal(t, topicScreen, m.screen)
	assert.Contains(t, m.View(), assert.AnError.Error())
}
