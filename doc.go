/*
Package orderbot is the conversational front-end of the PosterMan order-support chatbot.

Every user turn is first offered to a remote dialogue service. When that
service is unreachable, slow or answers with a malformed payload, the turn is
handled by a local rule-based dialogue state machine instead, so the user
always receives exactly one reply.

# Concept

The local engine has three parts:

  - Intent Matcher (pkg/intent): an ordered keyword rule table.
  - Dialogue State Machine (pkg/dialogue): a closed set of states driving
    order tracking, catalog browsing, custom prints and a multi-item checkout.
  - Fallback Orchestrator (pkg/orchestrator): remote first, local on failure.

Conversations are persisted through a ports.ConversationStore (memory or
Redis) and serialized per session by pkg/session.

# Usage

	bot := orderbot.New(
		orderbot.WithRemote(http.NewClient("https://bot.example/chat")),
		orderbot.WithCatalog(catalog),
	)

	turn, err := bot.Respond(ctx, "user-1", "track order")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(turn.Reply.Text)
*/
package orderbot
