package callbacks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct{ name string }

func (t *fakeTool) Name() string                                           { return t.name }
func (t *fakeTool) Description() string                                    { return "desc" }
func (t *fakeTool) Parameters() any                                        { return nil }
func (t *fakeTool) Call(ctx context.Context, input string) (string, error) { return "", nil }

func withFixedTime(t *testing.T) {
	oldTimeFn := TimeNowFn
	TimeNowFn = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { TimeNowFn = oldTimeFn })
}

func TestScratchpad_Stats(t *testing.T) {
	withFixedTime(t)
	ctx := context.Background()

	sp := NewScratchpad(ModeVerbose)
	t1 := &fakeTool{name: "T1"}
	t2 := &fakeTool{name: "T2"}

	sp.OnToolStart(ctx, t1, "tinput")
	sp.OnToolEnd(ctx, t1, "tinput", "toutput")
	sp.OnToolStart(ctx, t1, "tinput")
	sp.OnToolError(ctx, t1, "tinput", errors.New("terr"))
	sp.OnToolStart(ctx, t2, "tinput")
	sp.OnToolEnd(ctx, t2, "tinput", "toutput")

	stats := sp.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, uint32(3), stats.ToolsCalls)
	assert.Equal(t, uint32(2), stats.ToolsCallsSucceeded)
	assert.Equal(t, uint32(1), stats.ToolsCallsFailed)
	assert.Equal(t, &ToolStats{Calls: 2, Succeeded: 1, Failed: 1}, stats.Tools["T1"])
	assert.Equal(t, &ToolStats{Calls: 1, Succeeded: 1}, stats.Tools["T2"])
	assert.Equal(t, "0s", stats.Duration)

	// snapshot is not affected by the later calls
	sp.OnToolStart(ctx, t2, "tinput")
	assert.Equal(t, uint32(1), stats.Tools["T2"].Calls)

	journal := string(sp.Journal())
	assert.Contains(t, journal, "2024-01-01 12:00:00 T1 *** Tool Start ***\n")
	assert.Contains(t, journal, "2024-01-01 12:00:00 T1 Input: tinput\n")
	assert.Contains(t, journal, "2024-01-01 12:00:00 T1 Output: toutput\n")
	assert.Contains(t, journal, "2024-01-01 12:00:00 T1 *** Tool Error *** terr\n")

	sp.Reset()
	stats = sp.Stats()
	assert.Equal(t, uint32(0), stats.ToolsCalls)
	assert.Empty(t, stats.Tools)
	assert.Empty(t, sp.Journal())
}

func TestScratchpad_DefaultMode(t *testing.T) {
	withFixedTime(t)
	ctx := context.Background()

	sp := NewScratchpad(ModeDefault)
	sp.OnToolEnd(ctx, &fakeTool{name: "T1"}, "tinput", "toutput")
	assert.Equal(t, "2024-01-01 12:00:00 T1 *** Tool End ***\n", string(sp.Journal()))
}

func TestScratchpad_MaxEntries(t *testing.T) {
	ctx := context.Background()
	sp := NewScratchpad(ModeDefault)
	tool := &fakeTool{name: "T1"}

	for i := range MaxEntries {
		sp.OnToolError(ctx, tool, "", fmt.Errorf("err%d", i))
	}
	sp.OnToolError(ctx, tool, "", errors.New("last"))

	lines := strings.Split(strings.TrimSpace(string(sp.Journal())), "\n")
	require.Len(t, lines, MaxEntries)
	assert.True(t, strings.HasSuffix(lines[0], "err1"), lines[0])
	assert.True(t, strings.HasSuffix(lines[MaxEntries-1], "last"))
	assert.Equal(t, uint32(MaxEntries+1), sp.Stats().ToolsCallsFailed)
}

func TestScratchpad_Concurrent(t *testing.T) {
	ctx := context.Background()
	sp := NewScratchpad(ModeVerbose)
	tool := &fakeTool{name: "T1"}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				sp.OnToolStart(ctx, tool, "in")
				sp.OnToolEnd(ctx, tool, "in", "out")
			}
		}()
	}
	wg.Wait()

	stats := sp.Stats()
	assert.Equal(t, uint32(100), stats.ToolsCalls)
	assert.Equal(t, uint32(100), stats.Tools["T1"].Succeeded)
}
