// Package tripagent embeds the travel assistant agent in a Go program without
// running the HTTP server.
//
// The client owns a knowledge base (in memory, optionally persisted to Valkey
// or Redis), a similarity search engine over it, a tool registry and the agent
// that routes each message to a tool or to plain chat.
//
//	client, _ := tripagent.New(ctx,
//	    tripagent.WithGenerator(myLLM),
//	    tripagent.WithEmbedder(myEmbedder),
//	    tripagent.WithTool(tripagent.Tool{
//	        Name:        "get_weather",
//	        Description: "Current weather for a city",
//	        Params:      []tripagent.Param{{Name: "location", Type: tripagent.ParamString, Required: true}},
//	        Handler:     weather.Lookup,
//	    }),
//	)
//	defer client.Close()
//
//	reply := client.Chat(ctx, "What's the weather in Rome?", tripagent.ChatContext{UserID: "u-1"})
//
// Without an embedder every vector comes from a deterministic hash fallback:
// search still answers, but ranking carries no semantic meaning and results are
// flagged Degraded.
package tripagent
