package notify

import "github.com/prometheus/client_golang/prometheus"

// Test-only accessors for the dispatcher's counters, so the external test
// package can assert on delivery outcomes.

func (d *Dispatcher) DeliveredCounter() prometheus.Counter { return d.delivered }
func (d *Dispatcher) FailedCounter() prometheus.Counter    { return d.failed }
func (d *Dispatcher) DroppedCounter() prometheus.Counter   { return d.dropped }
