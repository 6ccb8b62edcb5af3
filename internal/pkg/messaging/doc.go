// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Business code depends on the interfaces in this package only. Memory is
// an in-process bus for single-node deployments and tests; NATS, Kafka and
// NSQ back multi-node deployments.
package messaging
