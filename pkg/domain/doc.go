/*
Package domain contains the core models of the order-support dialogue engine.

It defines the closed set of flow states, the per-session Conversation snapshot,
the canonical Reply shape and the intents produced by the matcher. The package is
kept pure and free of I/O so every adapter (HTTP, MCP, Redis, terminal) can share it.

# Key Entities

  - StateID: a node of the order flow graph (IDLE is both entry and reset target).
  - Conversation: current state, accumulated Draft and fallback streak for one session.
  - Reply: text plus ordered quick-reply options.
  - Match: the intent classified for one utterance, with extracted details.
  - LifecycleHooks: observability callbacks fired by the machine and orchestrator.
*/
package domain
