// Package webrag ingests web pages into a Valkey/Redis vector index and
// assembles grounded prompts from it.
//
// A Client renders each URL in headless Chromium, splits the page text into
// overlapping windows, embeds every window through an OpenAI-compatible API
// and stores it with its source URL and position. BuildContext embeds a
// question, retrieves the closest chunks and wraps them in a prompt that
// tells the model to answer from that context only.
//
//	c, err := webrag.New(ctx,
//		webrag.WithValkey("localhost:6379", ""),
//		webrag.WithCollection("docs", webrag.MetricCosine),
//		webrag.WithOpenAIEmbeddings(webrag.OpenAIConfig{
//			APIKey:     os.Getenv("OPENAI_API_KEY"),
//			Model:      "text-embedding-3-small",
//			Dimensions: 1536,
//		}),
//	)
//	if err != nil { ... }
//	defer c.Close()
//
//	report, err := c.Ingest(ctx, []string{"https://example.com"})
//	pc, err := c.BuildContext(ctx, "What is example.com for?", 5)
package webrag
