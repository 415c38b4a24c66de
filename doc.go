// Package hybridrag provides an in-memory hybrid retrieval engine for
// question answering over uploaded documents.
//
// Ingested documents are chunked, embedded, and mined for entities and
// relationships. Queries are answered by fusing two independent search
// signals: semantic similarity between the query embedding and chunk
// embeddings, and graph expansion from query entities through stored
// relationships back to chunk text.
//
// # Basic Usage
//
// Create a client with the external collaborators it needs:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	logger := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
//
//	embedderClient, err := embedder.NewOpenAIClient(cfg.Embedding, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	chatClient, err := llm.NewOpenAIClient(cfg.Extraction, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := hybridrag.NewClient(embedderClient, chatClient, cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// # Ingesting and Asking
//
//	result, err := client.IngestDocument(ctx, "team-notes.pdf")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	answer, err := client.Ask(ctx, "Where does Alice work?")
//
// Each client owns its own store, so independent corpora can coexist in
// one process without shared global state.
package hybridrag
