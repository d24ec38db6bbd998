package callbacks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/effective-security/expressmcp/tools"
	"github.com/effective-security/expressmcp/utils"
)

var TimeNowFn = time.Now

// MaxEntries is the number of the latest entries kept by the Scratchpad.
var MaxEntries = 100

// ToolStats is the call statistics of one tool.
type ToolStats struct {
	Calls     uint32 `json:"calls" yaml:"calls"`
	Succeeded uint32 `json:"succeeded" yaml:"succeeded"`
	Failed    uint32 `json:"failed" yaml:"failed"`
}

// RunStats is the call statistics since the Scratchpad was started or reset.
type RunStats struct {
	Started  time.Time `json:"started" yaml:"started"`
	Duration string    `json:"duration" yaml:"duration"`

	ToolsCalls          uint32                `json:"toolsCalls" yaml:"tools_calls"`
	ToolsCallsSucceeded uint32                `json:"toolsCallsSucceeded" yaml:"tools_calls_succeeded"`
	ToolsCallsFailed    uint32                `json:"toolsCallsFailed" yaml:"tools_calls_failed"`
	Tools               map[string]*ToolStats `json:"tools" yaml:"tools"`
}

// Scratchpad is a callback handler that keeps the tool statistics
// and a journal of the latest events.
type Scratchpad struct {
	mode    Mode
	lock    sync.Mutex
	started time.Time
	stats   RunStats
	entries []string
}

func NewScratchpad(mode Mode) *Scratchpad {
	s := &Scratchpad{mode: mode}
	s.Reset()
	return s
}

// Reset clears the statistics and the journal.
func (l *Scratchpad) Reset() {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.started = TimeNowFn()
	l.stats = RunStats{
		Started: l.started,
		Tools:   map[string]*ToolStats{},
	}
	l.entries = nil
}

// Stats returns a snapshot of the statistics.
func (l *Scratchpad) Stats() *RunStats {
	l.lock.Lock()
	defer l.lock.Unlock()

	stats := l.stats
	stats.Duration = TimeNowFn().Sub(l.started).String()
	stats.Tools = make(map[string]*ToolStats, len(l.stats.Tools))
	for name, ts := range l.stats.Tools {
		cp := *ts
		stats.Tools[name] = &cp
	}
	return &stats
}

// Journal returns the latest entries, oldest first.
func (l *Scratchpad) Journal() []byte {
	l.lock.Lock()
	defer l.lock.Unlock()

	var buf strings.Builder
	for _, entry := range l.entries {
		buf.WriteString(entry)
		buf.WriteString("\n")
	}
	return []byte(buf.String())
}

func (l *Scratchpad) tool(name string) *ToolStats {
	ts := l.stats.Tools[name]
	if ts == nil {
		ts = &ToolStats{}
		l.stats.Tools[name] = ts
	}
	return ts
}

func (l *Scratchpad) OnToolStart(_ context.Context, tool tools.ITool, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.stats.ToolsCalls++
	l.tool(tool.Name()).Calls++
	l.print(tool.Name(), "*** Tool Start ***")
	l.print(tool.Name(), "Input:", input)
}

func (l *Scratchpad) OnToolEnd(_ context.Context, tool tools.ITool, _ string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.stats.ToolsCallsSucceeded++
	l.tool(tool.Name()).Succeeded++
	if l.mode == ModeVerbose {
		l.print(tool.Name(), "Output:", utils.TruncateString(output, 200))
	}
	l.print(tool.Name(), "*** Tool End ***")
}

func (l *Scratchpad) OnToolError(_ context.Context, tool tools.ITool, _ string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.stats.ToolsCallsFailed++
	l.tool(tool.Name()).Failed++
	l.print(tool.Name(), "*** Tool Error ***", err.Error())
}

// print appends the entry in the following format:
// timestamp entry entry
// The caller must hold the lock.
func (l *Scratchpad) print(entries ...string) {
	line := TimeNowFn().Format("2006-01-02 15:04:05") + " " + strings.Join(entries, " ")
	l.entries = append(l.entries, line)
	if over := len(l.entries) - MaxEntries; over > 0 {
		l.entries = l.entries[over:]
	}
}
