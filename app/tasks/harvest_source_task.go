package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2008zhum-boop/radar-ai/app/harvest"
	"github.com/2008zhum-boop/radar-ai/app/monitor"
)

type HarvestSourceTask struct {
	Task
	Source    harvest.Source
	harvester *harvest.Harvester
	pipeline  *monitor.Pipeline
}

func NewHarvestSourceTask(source harvest.Source, harvester *harvest.Harvester, pipeline *monitor.Pipeline) *HarvestSourceTask {
	return &HarvestSourceTask{
		Task:      NewTask(TaskTypeHarvestSource, source.Name),
		Source:    source,
		harvester: harvester,
		pipeline:  pipeline,
	}
}

func (t *HarvestSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.harvester.Run(ctx, t.Source)
	if err != nil {
		return fmt.Errorf("failed to harvest source: %w", err)
	}

	result, err := t.pipeline.Ingest(ctx, items)
	if err != nil {
		return fmt.Errorf("failed to ingest batch: %w", err)
	}

	for _, alert := range result.Alerts {
		slog.Warn("Risk alert",
			"client", alert.Client,
			"level", alert.Level,
			"title", alert.Title,
			"reason", alert.Reason)
	}

	slog.Info("Task completed",
		"type", "HarvestSource",
		"source", t.Source.Name,
		"duration", t.GetDuration(),
		"total", len(items),
		"processed", result.ProcessedCount,
		"alerts", len(result.Alerts))

	return nil
}
