package health

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds each check.
const DefaultTimeout = 5 * time.Second

// Report pairs a check name with its result.
type Report struct {
	Name   string  `json:"name" yaml:"name"`
	Result *Result `json:"result" yaml:"result"`
}

// Manager runs checks in parallel with a per-check timeout.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewManager creates a manager with DefaultTimeout.
func NewManager(checkers ...Checker) *Manager {
	return &Manager{
		checkers: checkers,
		timeout:  DefaultTimeout,
	}
}

// WithTimeout sets a custom per-check timeout.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	if timeout > 0 {
		m.timeout = timeout
	}
	return m
}

// AddChecker registers a checker. Reports keep registration order.
func (m *Manager) AddChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// Check runs all checkers and returns one report per checker, in the order
// they were added.
func (m *Manager) Check(ctx context.Context) []Report {
	m.mu.RLock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	timeout := m.timeout
	m.mu.RUnlock()

	reports := make([]Report, len(checkers))
	var wg sync.WaitGroup

	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			result := c.Check(checkCtx)
			if result == nil {
				result = Unhealthy("check returned no result")
			}
			if result.Latency == 0 {
				result.Latency = time.Since(start)
			}
			reports[i] = Report{Name: c.Name(), Result: result}
		}(i, checker)
	}

	wg.Wait()
	return reports
}

// OverallStatus is the worst status among reports. No reports is healthy.
func OverallStatus(reports []Report) Status {
	overall := StatusHealthy
	for _, r := range reports {
		switch r.Result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}
