package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// PipelineTask runs ingestion and then post generation over the articles
// parsed in the same run.
type PipelineTask struct {
	Task
	ingest *IngestTask
	zen    func(ingested IngestResult) *ZenTask
	dbPath string

	Ingested  IngestResult
	Published ZenResult
}

// NewPipelineTask chains an ingest task with a zen task built from its
// result.
func NewPipelineTask(source string, ingest *IngestTask, zen func(ingested IngestResult) *ZenTask, dbPath string) *PipelineTask {
	return &PipelineTask{
		Task:   NewTask(TaskTypePipeline, source),
		ingest: ingest,
		zen:    zen,
		dbPath: dbPath,
	}
}

func (t *PipelineTask) Execute(ctx context.Context) error {
	t.Start()

	if err := t.ingest.Execute(ctx); err != nil {
		return err
	}
	t.Ingested = t.ingest.Result

	zen := t.zen(t.Ingested)
	if err := zen.Execute(ctx); err != nil {
		return err
	}
	t.Published = zen.Result

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"source", t.Source,
		"duration", t.GetDuration())

	return nil
}

func (t *PipelineTask) Summary() string {
	return fmt.Sprintf("Pipeline complete. Parsed: %d, inserted: %d, posts: %d, delivered: %d, db: %s",
		t.Ingested.Parsed, t.Ingested.Inserted, t.Published.Recorded, t.Published.Delivered, t.dbPath)
}
