package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pydoxy/internal/clock"
)

func TestHandleReloadMsg_PopulatesList(t *testing.T) {
	m, _ := loaded(t)

	require.Len(t, m.list.Items(), 3)
	assert.Equal(t, 3, m.lines)
	assert.Equal(t, start, m.reloadedAt)
	assert.NoError(t, m.err)
	assert.Contains(t, m.viewport.View(), "## @brief Shapes.")
}

func TestHandleReloadMsg_ErrorKeepsLastResult(t *testing.T) {
	m, _ := loaded(t)

	m, cmd := Update(m, reloadMsg{err: errors.New("boom")})

	assert.Nil(t, cmd)
	assert.EqualError(t, m.err, "boom")
	assert.Len(t, m.list.Items(), 3)
	assert.Equal(t, start, m.reloadedAt)
}

func TestHandleReloadMsg_KeepsSelection(t *testing.T) {
	m, clk := loaded(t)
	m, _ = HandleKeyMsg(m, simulateKeyMsg("j"))
	require.Equal(t, 1, m.list.Index())

	clk.Advance(time.Minute)
	m, _ = Update(m, reloadMsg{res: sampleResult()})

	if got := m.list.Index(); got != 1 {
		t.Errorf("Index() got = %v, want %v", got, 1)
	}
	assert.Equal(t, start.Add(time.Minute), m.reloadedAt)
	assert.Contains(t, m.viewport.View(), "# @namespace shapes.Shape")
}

func TestHandleKeyMsg_NavigationShowsBlock(t *testing.T) {
	m, _ := loaded(t)

	m, _ = HandleKeyMsg(m, simulateKeyMsg("j"))
	m, _ = HandleKeyMsg(m, simulateKeyMsg("j"))

	assert.Equal(t, 2, m.list.Index())
	assert.Contains(t, m.viewport.View(), "## @brief Area.")
	assert.NotContains(t, m.viewport.View(), "@namespace")
}

func TestHandleKeyMsg_ReloadRunsLoader(t *testing.T) {
	calls := 0
	m := initialModel("shapes.py", countingLoader(sampleResult(), nil, &calls), nil, clock.NewMockClock(start), 24)

	m, cmd := HandleKeyMsg(m, simulateKeyMsg("r"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(reloadMsg)
	require.True(t, ok)
	assert.Equal(t, 1, calls)

	m, _ = Update(m, msg)
	assert.Len(t, m.list.Items(), 3)
}

func TestHandleKeyMsg_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{simulateKeyMsg("q"), {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			m, _ := loaded(t)
			m, cmd := HandleKeyMsg(m, key)
			assert.True(t, m.quitting)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())

			// Input after quitting is ignored.
			_, cmd = HandleKeyMsg(m, simulateKeyMsg("r"))
			assert.Nil(t, cmd)
		})
	}
}

func TestWatchErrMsg_ShowsError(t *testing.T) {
	m, _ := loaded(t)

	m, cmd := Update(m, watchErrMsg{err: errors.New("watch failed")})

	assert.EqualError(t, m.err, "watch failed")
	assert.Nil(t, cmd, "no watcher to re-arm")
}

func TestHandleWindowResize(t *testing.T) {
	m, _ := loaded(t)

	m, _ = Update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Equal(t, 40, m.list.Width())
	assert.Equal(t, 74, m.viewport.Width)
	assert.Equal(t, 34, m.viewport.Height)
}
