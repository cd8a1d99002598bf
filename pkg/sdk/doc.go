// Package ragdesk embeds the ragdesk question-answering pipeline in a Go program,
// without running the HTTP server.
//
// Documents are split into overlapping chunks, embedded and stored in a Valkey
// (or Redis) vector index per domain. Questions are answered from the single
// most similar chunk of their domain.
//
//	client, _ := ragdesk.New(ctx,
//	    ragdesk.WithValkey("localhost:6379", ""),
//	    ragdesk.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer client.Close()
//
//	_, _ = client.Submit(ctx, "facts", "The sky is blue.", "Water is wet.")
//	ans, err := client.Ask(ctx, "facts", "What color is the sky?")
//	if errors.Is(err, ragdesk.ErrNoRelevantDocuments) {
//	    // domain never ingested, or nothing matched
//	}
//	fmt.Println(ans.Text)
package ragdesk
