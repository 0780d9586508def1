/*
Package ports defines the driven ports (interfaces) of the dialogue engine.

These interfaces decouple the state machine and the fallback orchestrator from
storage backends, the remote dialogue service and the shop's catalog and order systems.

# Key Interfaces

  - ConversationStore: persists and loads per-session Conversations.
  - DistributedLocker: serializes turns of one session across replicas.
  - RemoteDialogue: the remote dialogue service preferred by the orchestrator.
  - Catalog, OrderTracker, OrderSink: shop collaborators used by the machine.
*/
package ports
