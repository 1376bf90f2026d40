// Package seed fills a running annotation server with synthetic data:
// a segmented document, a batch of manual spans, machine-output source
// batches, and a scripted tracking run. Useful for demos and for
// exercising a deployment end to end.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/glossa/pkg/logger"
)

// Config holds configuration for one seed run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Segments int           // Number of document segments
	Spans    int           // Number of manual spans to submit
	Batches  int           // Number of machine-output batches
	Timeout  time.Duration // HTTP request timeout
	Seed     int64         // PRNG seed for reproducible runs
}

// Stats summarizes what a run submitted and what the server accepted.
type Stats struct {
	SpansAccepted  int
	SpansRejected  int
	BatchesApplied int
	Annotations    int
	ArchiveID      string
	Elapsed        time.Duration
}

// Run executes the full seed script against a running server.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	log := logger.Get().Named("seed")
	start := time.Now()

	client := newClient(cfg.BaseURL, cfg.Timeout)
	gen := newGenerator(cfg.Seed)

	var stats Stats

	// Document structure first; spans are rejected without it.
	doc := gen.document(cfg.Segments)
	if err := client.putSegments(ctx, doc); err != nil {
		return stats, fmt.Errorf("seed segments: %w", err)
	}
	log.Info(ctx, "document seeded", logger.Int("segments", len(doc.Segments)))

	for _, span := range gen.spans(doc, cfg.Spans) {
		ok, err := client.postSpan(ctx, span)
		if err != nil {
			return stats, fmt.Errorf("seed span: %w", err)
		}
		if ok {
			stats.SpansAccepted++
		} else {
			stats.SpansRejected++
		}
	}
	log.Info(ctx, "spans seeded",
		logger.Int("accepted", stats.SpansAccepted),
		logger.Int("rejected", stats.SpansRejected),
	)

	for i := 0; i < cfg.Batches; i++ {
		if err := client.postBatch(ctx, gen.batch(i)); err != nil {
			return stats, fmt.Errorf("seed batch %d: %w", i, err)
		}
		stats.BatchesApplied++
	}
	log.Info(ctx, "source batches seeded", logger.Int("batches", stats.BatchesApplied))

	// Scripted tracking session: one saved sequence and one confirmed
	// single-frame event.
	n, err := runTrackingScript(ctx, client, gen)
	if err != nil {
		return stats, fmt.Errorf("seed tracking: %w", err)
	}
	stats.Annotations = n

	id, err := client.saveArchive(ctx, archiveRequest{
		Corpus:    "seed",
		Type:      "multimodal",
		Framework: "demo",
		Name:      "seed run " + time.Now().UTC().Format(time.RFC3339),
		Coder:     "seed",
	})
	if err != nil {
		return stats, fmt.Errorf("seed archive: %w", err)
	}
	stats.ArchiveID = id
	stats.Elapsed = time.Since(start)

	log.Info(ctx, "seed run complete",
		logger.String("archive", stats.ArchiveID),
		logger.Duration("elapsed", stats.Elapsed),
	)
	return stats, nil
}

// runTrackingScript opens synthetic media and drives the box workflow
// through a draw/track/adjust/save cycle plus a confirmed event.
func runTrackingScript(ctx context.Context, client *client, gen *generator) (int, error) {
	const totalFrames = 250

	if err := client.openMedia(ctx, totalFrames, 25); err != nil {
		return 0, err
	}

	// Saved sequence: draw, advance twice with an adjustment between.
	if err := client.trackingAction(ctx, "draw", trackingRequest{
		Box: gen.box(), Frame: 0, Time: 0, Label: "walker", Color: "#2ecc71",
	}); err != nil {
		return 0, err
	}
	if err := client.trackingAction(ctx, "next", trackingRequest{Interval: 10}); err != nil {
		return 0, err
	}
	if err := client.trackingAction(ctx, "adjust", trackingRequest{Box: gen.box()}); err != nil {
		return 0, err
	}
	if err := client.trackingAction(ctx, "next", trackingRequest{Interval: 10}); err != nil {
		return 0, err
	}
	if err := client.trackingAction(ctx, "save", trackingRequest{}); err != nil {
		return 0, err
	}

	// Confirmed single-frame event.
	if err := client.trackingAction(ctx, "draw", trackingRequest{
		Box: gen.box(), Frame: 100, Time: 4, Label: "wave", Color: "#e67e22",
	}); err != nil {
		return 0, err
	}
	if err := client.trackingAction(ctx, "confirm", trackingRequest{}); err != nil {
		return 0, err
	}

	return client.countAnnotations(ctx)
}
