package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/powerplant/core/dispatch/logging"
	"github.com/kilianp07/powerplant/core/events"
	"github.com/kilianp07/powerplant/core/logger"
	"github.com/kilianp07/powerplant/core/metrics"
	"github.com/kilianp07/powerplant/core/model"
	"github.com/kilianp07/powerplant/core/monitoring"
	"github.com/kilianp07/powerplant/core/mqtt"
	"github.com/kilianp07/powerplant/internal/eventbus"
)

// DefaultAckTimeout is used when no acknowledgment timeout is configured.
const DefaultAckTimeout = 5 * time.Second

// Result is the outcome of a managed solve.
type Result struct {
	RequestID      string
	Configurations []model.PlantConfiguration
	Cost           float64
	LowerBound     float64
	Nodes          int
	// Acknowledged and Errors are keyed by plant name and only filled when
	// setpoints are published.
	Acknowledged map[string]bool
	Errors       map[string]error
}

// DispatchManager runs the solver for incoming problems and takes care of
// bookkeeping: metrics, events, the solve log and setpoint publication.
type DispatchManager struct {
	solver     Solver
	publisher  mqtt.Client
	ackTimeout time.Duration
	logger     logger.Logger
	metrics    metrics.MetricsSink
	bus        eventbus.EventBus
	monitor    monitoring.Monitor
	store      logging.LogStore
	lowerBound bool
	mu         sync.RWMutex
}

// NewDispatchManager creates a new manager. publisher, sink and bus are
// optional. If ackTimeout is zero, DefaultAckTimeout is used.
func NewDispatchManager(solver Solver, publisher mqtt.Client, ackTimeout time.Duration, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*DispatchManager, error) {
	if log == nil {
		return nil, fmt.Errorf("dispatch: nil logger provided to NewDispatchManager")
	}
	if ackTimeout <= 0 {
		ackTimeout = DefaultAckTimeout
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &DispatchManager{
		solver:     solver,
		publisher:  publisher,
		ackTimeout: ackTimeout,
		logger:     log,
		metrics:    sink,
		bus:        bus,
	}, nil
}

// SetLogStore configures the store used to persist solve logs.
func (m *DispatchManager) SetLogStore(store logging.LogStore) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

// LogStore returns the configured solve log store, or nil.
func (m *DispatchManager) LogStore() logging.LogStore {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// SetMonitor overrides the global error monitor.
func (m *DispatchManager) SetMonitor(mon monitoring.Monitor) {
	m.mu.Lock()
	m.monitor = mon
	m.mu.Unlock()
}

// SetLowerBound toggles the LP relaxation bound computed after each solve.
func (m *DispatchManager) SetLowerBound(enabled bool) {
	m.mu.Lock()
	m.lowerBound = enabled
	m.mu.Unlock()
}

func (m *DispatchManager) currentMonitor() monitoring.Monitor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.monitor != nil {
		return m.monitor
	}
	return monitoring.Current()
}

// Close releases resources held by the manager.
func (m *DispatchManager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	if store := m.LogStore(); store != nil {
		return store.Close()
	}
	return nil
}

// outcomeOf maps a solver error to a metric label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrAllocationInvariant):
		return metrics.OutcomeInvariant
	default:
		return metrics.OutcomeInfeasible
	}
}

// Solve computes the production plan for problem. Solver errors are returned
// unchanged so callers can match them with errors.Is.
func (m *DispatchManager) Solve(ctx context.Context, problem model.Problem) (Result, error) {
	res := Result{RequestID: uuid.NewString()}

	start := time.Now()
	sol, err := m.solver.SolveDetailed(problem)
	dur := time.Since(start)
	res.Nodes = sol.Nodes
	m.logger.Debugw("commitment search", map[string]any{
		"request_id": res.RequestID,
		"load":       problem.Load,
		"plants":     len(problem.Plants),
		"nodes":      sol.Nodes,
	})

	outcome := outcomeOf(err)
	solveLatency.WithLabelValues(outcome).Observe(dur.Seconds())
	solvesTotal.WithLabelValues(outcome).Inc()
	searchNodes.Observe(float64(sol.Nodes))

	switch outcome {
	case metrics.OutcomeInvariant:
		m.logger.Errorf("solve %s: %v", res.RequestID, err)
		m.currentMonitor().CaptureException(err, map[string]string{
			"request_id": res.RequestID,
			"load":       fmt.Sprintf("%g", problem.Load),
		})
	case metrics.OutcomeInfeasible:
		m.logger.Warnf("solve %s: load %.1f MW cannot be met: %v", res.RequestID, problem.Load, err)
	default:
		res.Configurations = sol.Configurations()
		res.Cost = sol.Cost()
		if m.lowerBoundEnabled() {
			if lb, lerr := CostLowerBound(problem.Load, sol.Units); lerr != nil {
				m.logger.Warnf("solve %s: lower bound: %v", res.RequestID, lerr)
			} else {
				res.LowerBound = lb
			}
		}
		m.logger.Infof("solve %s: %.1f MW from %d/%d plants at %.2f €/h in %s",
			res.RequestID, problem.Load, sol.Commitment.Committed(), len(sol.Units), res.Cost, dur)
	}

	m.record(ctx, problem, sol, &res, outcome, err, dur)
	if err != nil {
		return res, err
	}
	if m.publisher != nil {
		m.publishSetpoints(ctx, &res, sol)
	}
	return res, nil
}

func (m *DispatchManager) lowerBoundEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lowerBound
}

// record forwards the solve to the metrics sink, the event bus and the log store.
func (m *DispatchManager) record(ctx context.Context, problem model.Problem, sol Solution, res *Result, outcome string, solveErr error, dur time.Duration) {
	now := time.Now()
	committed := sol.Commitment.Committed()
	if err := m.metrics.RecordSolve(metrics.SolveRecord{
		RequestID:  res.RequestID,
		Load:       problem.Load,
		Outcome:    outcome,
		Plants:     len(problem.Plants),
		Committed:  committed,
		Nodes:      sol.Nodes,
		Cost:       res.Cost,
		LowerBound: res.LowerBound,
		Duration:   dur,
		Time:       now,
	}); err != nil {
		m.logger.Errorf("metrics error: %v", err)
	}
	if sr, ok := m.metrics.(metrics.SetpointRecorder); ok && solveErr == nil {
		sps := make([]metrics.PlantSetpoint, len(sol.Units))
		for i, u := range sol.Units {
			sps[i] = metrics.PlantSetpoint{
				RequestID:    res.RequestID,
				Plant:        u.Plant.Name,
				FuelType:     u.Plant.FuelType.String(),
				PowerMW:      sol.Powers[i],
				MaxMW:        u.Max,
				MarginalCost: u.MarginalCost,
				Committed:    sol.Commitment.On[i],
				Time:         now,
			}
		}
		if err := sr.RecordSetpoints(sps); err != nil {
			m.logger.Errorf("setpoint metrics error: %v", err)
		}
	}

	if m.bus != nil {
		m.bus.Publish(events.SolveEvent{
			RequestID: res.RequestID,
			Load:      problem.Load,
			Plants:    len(problem.Plants),
			Committed: committed,
			Outcome:   outcome,
			Nodes:     sol.Nodes,
			Cost:      res.Cost,
			Duration:  dur,
			Err:       solveErr,
		})
	}

	store := m.LogStore()
	if store == nil {
		return
	}
	names := make([]string, len(problem.Plants))
	for i, p := range problem.Plants {
		names[i] = p.Name
	}
	rec := logging.LogRecord{
		Timestamp:      now,
		RequestID:      res.RequestID,
		Load:           problem.Load,
		Plants:         names,
		Outcome:        outcome,
		Configurations: res.Configurations,
		Cost:           res.Cost,
		LowerBound:     res.LowerBound,
		Nodes:          sol.Nodes,
	}
	if solveErr != nil {
		rec.Error = solveErr.Error()
	}
	if err := store.Append(ctx, rec); err != nil {
		m.logger.Errorf("solve log error: %v", err)
	}
}

// sendAndWait publishes one setpoint and waits for its acknowledgment while
// measuring the latency.
func (m *DispatchManager) sendAndWait(plant string, power float64) (bool, time.Duration, error) {
	start := time.Now()
	cmdID, err := m.publisher.SendSetpoint(plant, power)
	if err != nil {
		setpointFailure.Inc()
		return false, time.Since(start), err
	}
	setpointSuccess.Inc()
	ack, err := m.publisher.WaitForAck(cmdID, m.ackTimeout)
	return ack, time.Since(start), err
}

// publishSetpoints sends the power of every committed plant concurrently and
// records the acknowledgments. Ack metrics are forwarded by the event
// collector listening on the bus.
func (m *DispatchManager) publishSetpoints(ctx context.Context, res *Result, sol Solution) {
	res.Acknowledged = make(map[string]bool)
	res.Errors = make(map[string]error)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ackCount int
		sent     int
	)
	update := func(plant string, power float64, ack bool, err error, dur time.Duration) {
		ok := err == nil && ack
		mu.Lock()
		if err != nil {
			res.Errors[plant] = err
		}
		res.Acknowledged[plant] = ok
		if ok {
			ackCount++
		}
		mu.Unlock()
		if m.bus != nil {
			m.bus.Publish(events.SetpointEvent{
				RequestID:    res.RequestID,
				Plant:        plant,
				PowerMW:      power,
				Acknowledged: ok,
				Err:          err,
				Latency:      dur,
			})
		}
	}

	for i, u := range sol.Units {
		if !sol.Commitment.On[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			mu.Lock()
			res.Errors[u.Plant.Name] = err
			res.Acknowledged[u.Plant.Name] = false
			mu.Unlock()
			continue
		}
		sent++
		wg.Add(1)
		go func(plant string, p float64) {
			defer wg.Done()
			ack, d, err := m.sendAndWait(plant, p)
			update(plant, p, ack, err, d)
		}(u.Plant.Name, sol.Powers[i])
	}
	wg.Wait()
	if sent > 0 {
		ackRate.Set(float64(ackCount) / float64(sent))
	}
	if n := len(res.Errors); n > 0 {
		m.logger.Warnf("solve %s: %d setpoints failed", res.RequestID, n)
	}
}
