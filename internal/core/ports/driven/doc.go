// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): capability providers and stores consumed
// by the core services.
package driven
