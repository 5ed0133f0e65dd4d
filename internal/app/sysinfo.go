package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

const (
	sysInfoUpdateInterval = time.Second
	cpuHistorySize        = 10
)

var sparkBars = []rune("▁▂▃▄▅▆▇█")

// updateSysinfo refreshes the CPU and RAM readings shown in the status
// bar. It is rate limited so extra messages between ticks are cheap.
func (m *Model) updateSysinfo() {
	now := time.Now()
	if now.Sub(m.lastSysUpdate) < sysInfoUpdateInterval {
		return
	}
	m.lastSysUpdate = now

	// Interval 0 measures against the previous call, which suits a
	// ticker better than blocking inside the update loop.
	usage := 0.0
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		usage = percents[0]
	}

	if len(m.cpuHistory) >= cpuHistorySize {
		m.cpuHistory = m.cpuHistory[1:]
	}
	m.cpuHistory = append(m.cpuHistory, usage)

	if vm, err := mem.VirtualMemory(); err == nil {
		m.ramUsage = vm.UsedPercent
	}
}

// cpuGraph renders the recent CPU samples as a sparkline plus the current
// percentage. The result is fixed width so the status bar never shifts.
func (m *Model) cpuGraph() string {
	current := 0.0
	if len(m.cpuHistory) > 0 {
		current = m.cpuHistory[len(m.cpuHistory)-1]
	}

	var graph strings.Builder
	// Left-pad until the sample window fills up.
	for i := len(m.cpuHistory); i < cpuHistorySize; i++ {
		graph.WriteByte(' ')
	}
	for _, usage := range m.cpuHistory {
		idx := int(usage / 100 * float64(len(sparkBars)))
		if idx >= len(sparkBars) {
			idx = len(sparkBars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		graph.WriteRune(sparkBars[idx])
	}
	return fmt.Sprintf("CPU:%s %3.0f%%", graph.String(), current)
}

// ramGauge returns the RAM usage as a fixed-width percentage string.
func (m *Model) ramGauge() string {
	return fmt.Sprintf("RAM:%3.0f%%", m.ramUsage)
}
