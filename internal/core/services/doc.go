// Package services implements the core pipeline: reflection
// extraction, prompt composition, orchestration, weekly review, and
// article enrichment. Services depend only on domain types and ports.
package services
