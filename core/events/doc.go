// Package events defines the events emitted on the event bus while
// production plans are computed and dispatched.
//
// Available event types:
//   - SolveEvent: outcome of one production plan request
//   - SetpointEvent: plant acknowledgment result for a published setpoint
package events
