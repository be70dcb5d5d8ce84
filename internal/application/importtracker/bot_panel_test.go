package importtracker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func TestBotPanel_Polling(t *testing.T) {
	api := newFakeAPI()
	clk := testingclock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	panel := NewBotPanel(api, Config{Clock: clk})

	var changes atomic.Int32
	panel.OnChange(func() { changes.Add(1) })

	panel.Start(context.Background())
	panel.Start(context.Background())
	require.Eventually(t, func() bool { return api.botStatusCount() == 1 }, waitFor, tick)

	clk.Step(DefaultBotPollInterval - time.Second)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, api.botStatusCount())

	clk.Step(time.Second)
	require.Eventually(t, func() bool { return api.botStatusCount() == 2 }, waitFor, tick)
	require.Eventually(t, func() bool {
		s := panel.Status()
		return s != nil && s.CSVImporter.RecentImports == 2
	}, waitFor, tick)
	assert.GreaterOrEqual(t, changes.Load(), int32(2))

	panel.Stop()
	clk.Step(DefaultBotPollInterval)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 2, api.botStatusCount())
}

func TestBotPanel_History(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.botHistory = []bulk.ImportHistoryEntry{
		{ID: "a", Status: bulk.ImportStatusCompleted, Duration: "3 ثانیه"},
		{ID: "b", Status: bulk.ImportStatusProcessing},
	}
	panel := NewBotPanel(api, Config{Clock: testingclock.NewFakeClock(time.Now())})

	require.NoError(t, panel.LoadHistory(ctx))
	rows := panel.History()
	require.Len(t, rows, 2)
	assert.Equal(t, "3 ثانیه", rows[0].Duration)
	assert.Equal(t, bulk.IconProcessing, rows[1].View.Icon)

	require.NoError(t, panel.DeleteHistory(ctx, "a"))
	assert.Equal(t, []string{"a"}, api.botDeleted)
	rows = panel.History()
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].ID)
	assert.NotNil(t, panel.Status())
}
