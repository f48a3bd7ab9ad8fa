// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration

	// Character volumes (only for LLM operations)
	TotalPromptChars int64
	TotalAnswerChars int64
	MinPromptChars   int64
	MaxPromptChars   int64
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeMs int64   `json:"totalTimeMs"`
	AvgTimeMs   float64 `json:"avgTimeMs"`
	MinTimeMs   int64   `json:"minTimeMs"`
	MaxTimeMs   int64   `json:"maxTimeMs"`

	// Prompt/answer volume stats (nil if not applicable)
	TotalPromptChars *int64   `json:"totalPromptChars,omitempty"`
	TotalAnswerChars *int64   `json:"totalAnswerChars,omitempty"`
	AvgPromptChars   *float64 `json:"avgPromptChars,omitempty"`
	MinPromptChars   *int64   `json:"minPromptChars,omitempty"`
	MaxPromptChars   *int64   `json:"maxPromptChars,omitempty"`
}

// Snapshot represents the full service statistics at a point in time.
type Snapshot struct {
	UptimeSeconds   float64            `json:"uptimeSeconds"`
	CallList        *OperationSnapshot `json:"callList,omitempty"`
	TranscriptFetch *OperationSnapshot `json:"transcriptFetch,omitempty"`
	EmailFetch      *OperationSnapshot `json:"emailFetch,omitempty"`
	CRMQuery        *OperationSnapshot `json:"crmQuery,omitempty"`
	LLMGenerate     *OperationSnapshot `json:"llmGenerate,omitempty"`
}

// Operation names for the collector.
const (
	OpCallList        = "call_list"
	OpTranscriptFetch = "transcript_fetch"
	OpEmailFetch      = "email_fetch"
	OpCRMQuery        = "crm_query"
	OpLLMGenerate     = "llm_generate"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe and nil-receiver safe, so wiring metrics is
// optional for callers.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{
			MinTime:        time.Duration(math.MaxInt64),
			MinPromptChars: math.MaxInt64,
		}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordLLMUsage records timing and prompt/answer volume for an LLM call.
func (c *Collector) RecordLLMUsage(duration time.Duration, promptChars, answerChars int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(OpLLMGenerate)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}

	m.TotalPromptChars += promptChars
	m.TotalAnswerChars += answerChars

	if promptChars < m.MinPromptChars {
		m.MinPromptChars = promptChars
	}
	if promptChars > m.MaxPromptChars {
		m.MaxPromptChars = promptChars
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics, includeVolume bool) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	snap := &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}

	if includeVolume && (m.TotalPromptChars > 0 || m.TotalAnswerChars > 0) {
		totalPrompt := m.TotalPromptChars
		totalAnswer := m.TotalAnswerChars
		avgPrompt := float64(m.TotalPromptChars) / float64(m.Count)
		minPrompt := m.MinPromptChars
		maxPrompt := m.MaxPromptChars

		if minPrompt == math.MaxInt64 {
			minPrompt = 0
		}

		snap.TotalPromptChars = &totalPrompt
		snap.TotalAnswerChars = &totalAnswer
		snap.AvgPromptChars = &avgPrompt
		snap.MinPromptChars = &minPrompt
		snap.MaxPromptChars = &maxPrompt
	}

	return snap
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds:   time.Since(c.startTime).Seconds(),
		CallList:        snapshotOp(c.ops[OpCallList], false),
		TranscriptFetch: snapshotOp(c.ops[OpTranscriptFetch], false),
		EmailFetch:      snapshotOp(c.ops[OpEmailFetch], false),
		CRMQuery:        snapshotOp(c.ops[OpCRMQuery], false),
		LLMGenerate:     snapshotOp(c.ops[OpLLMGenerate], true),
	}
}
