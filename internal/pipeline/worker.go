package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sectionscan/sectionscan/internal/config"
	"github.com/sectionscan/sectionscan/internal/convert"
	"github.com/sectionscan/sectionscan/internal/llm"
	"github.com/sectionscan/sectionscan/internal/segment"
	"github.com/sectionscan/sectionscan/internal/store"
)

// Worker processes a single document job: convert, segment, store, embed.
type Worker struct {
	store    *store.Store
	embedder *llm.EmbeddingClient // nil disables the embedding phase
	log      *slog.Logger
	cfg      config.Config
	counter  segment.TokenCounter
}

func NewWorker(st *store.Store, embedder *llm.EmbeddingClient, log *slog.Logger, cfg config.Config, counter segment.TokenCounter) *Worker {
	return &Worker{
		store:    st,
		embedder: embedder,
		log:      log,
		cfg:      cfg,
		counter:  counter,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Convert
	job.SetStatus(StatusConverting, "converting")
	data := job.FileData()
	fileSize := int64(len(data))

	conv, err := convert.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "converting")
		return
	}
	if pc, ok := conv.(*convert.PDFConverter); ok {
		pc.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}

	text, err := conv.Convert(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("convert failed", "error", err)
		job.AddError(fmt.Sprintf("convert: %s", err))
		job.SetStatus(StatusFailed, "converting")
		return
	}
	text = convert.CleanText(text)
	job.ReleaseFileData()

	if len(strings.TrimSpace(text)) < 10 {
		log.Warn("no extractable text")
		job.AddError("no extractable text")
		job.SetStatus(StatusFailed, "converting")
		return
	}

	// Dedup on the extracted text, not the raw bytes, so format-level
	// differences (metadata, compression) don't defeat it.
	job.SetContentHash(ContentHashHex([]byte(text)))
	existing, err := w.store.FindByContentHash(ctx, job.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existing != "" && existing != job.DocID {
		log.Info("duplicate document, skipping", "existing_doc_id", existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Segment
	job.SetStatus(StatusSegmenting, "segmenting")
	seg, err := w.segmenter(job.ChunkSize)
	if err != nil {
		log.Error("segmenter config invalid", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "segmenting")
		return
	}
	chunks := seg.Segment(text)
	job.SetTotalChunks(len(chunks))
	log.Info("segmented document", "chunks", len(chunks))

	if len(chunks) == 0 {
		job.AddError("no chunks produced")
		job.SetStatus(StatusFailed, "segmenting")
		return
	}

	records := make([]store.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = store.ChunkRecord{
			ChunkID:        fmt.Sprintf("%s_%d", job.DocID, i),
			DocID:          job.DocID,
			ChunkIndex:     i,
			Content:        c.Text,
			SectionHeading: c.Heading,
		}
	}

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	doc := store.Document{
		DocID:       job.DocID,
		Name:        job.Name,
		FilePath:    job.Filename,
		FileSize:    fileSize,
		ContentHash: job.ContentHash,
	}
	if doc.Name == "" {
		doc.Name = job.Filename
	}
	if err := w.store.UpsertDocument(ctx, doc); err != nil {
		log.Error("store document failed", "error", err)
		job.AddError(fmt.Sprintf("store document: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	if err := w.store.ReplaceChunks(ctx, job.DocID, records); err != nil {
		log.Error("store chunks failed", "error", err)
		job.AddError(fmt.Sprintf("store chunks: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	job.SetChunksStored(len(records))
	log.Info("stored chunks", "count", len(records))

	// Phase 4: Embed (optional). Failures here leave the document
	// keyword-searchable, so they downgrade the job instead of failing it.
	if w.embedder == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}
	job.SetStatus(StatusEmbedding, "embedding")
	if w.embedChunks(ctx, job, records, log) {
		job.SetStatus(StatusCompleted, "done")
	} else {
		job.SetStatus(StatusPartial, "done")
	}
}

// embedChunks embeds records in batches with bounded concurrency and
// reports whether every batch succeeded.
func (w *Worker) embedChunks(ctx context.Context, job *Job, records []store.ChunkRecord, log *slog.Logger) bool {
	batchSize := w.cfg.EmbedBatchSize
	var batches [][]store.ChunkRecord
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}

	sem := make(chan struct{}, w.cfg.MaxConcurrentEmbed)
	results := make(chan error, len(batches))

	for _, batch := range batches {
		sem <- struct{}{}
		go func(batch []store.ChunkRecord) {
			defer func() { <-sem }()
			results <- w.embedBatch(ctx, job, batch, log)
		}(batch)
	}

	ok := true
	for range batches {
		if err := <-results; err != nil {
			job.AddError(err.Error())
			ok = false
		}
	}
	return ok
}

func (w *Worker) embedBatch(ctx context.Context, job *Job, batch []store.ChunkRecord, log *slog.Logger) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Content
	}

	var vecs [][]float32
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		vecs, lastErr = w.embedder.Embed(ctx, texts)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable embedding error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if lastErr != nil {
		return fmt.Errorf("embed batch starting at %s: %w", batch[0].ChunkID, lastErr)
	}

	for i, c := range batch {
		if err := w.store.UpdateChunkEmbedding(ctx, c.ChunkID, vecs[i]); err != nil {
			return err
		}
		job.IncrChunksEmbedded(1)
	}
	return nil
}

// segmenter builds the configured segmentation strategy; chunkSize
// overrides the default when positive.
func (w *Worker) segmenter(chunkSize int) (segment.Segmenter, error) {
	if chunkSize <= 0 {
		chunkSize = w.cfg.ChunkSize
	}
	cfg := segment.Config{
		ChunkSize: chunkSize,
		Counter:   w.counter,
		Observer:  &segment.LogObserver{Log: w.log},
	}
	if w.cfg.EmitLeadingText {
		cfg.Leading = segment.LeadingEmit
	}
	if w.cfg.SegmentMode == "legacy" {
		return segment.NewFlatSegmenter(cfg)
	}
	return segment.NewSectionSegmenter(cfg)
}
