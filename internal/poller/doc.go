// Package poller implements the polling controller that drives the trade
// accumulator.
//
// The controller:
//   - Fetches once on start, then on every timer tick while auto-refresh is on
//     and on every manual refresh request
//   - Funnels both triggers through one event loop with a single in-flight
//     guard, so merges are applied in the order fetches were started
//   - Leaves the accumulated trades untouched when a fetch fails
//   - Publishes a Status snapshot to listeners after every change
package poller
