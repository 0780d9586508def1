/*
Package observability turns dialogue lifecycle events into Prometheus metrics
and structured log lines.

Both are plain domain.LifecycleHooks, so they can be merged and handed to the
dialogue machine and the orchestrator.
*/
package observability
