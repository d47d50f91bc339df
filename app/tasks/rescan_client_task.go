package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/2008zhum-boop/radar-ai/app/monitor"
)

const (
	rescanWindow    = 7 * 24 * time.Hour
	rescanPoolLimit = 1000
)

type RescanClientTask struct {
	Task
	ClientID string
	pipeline *monitor.Pipeline
}

func NewRescanClientTask(clientID string, pipeline *monitor.Pipeline) *RescanClientTask {
	return &RescanClientTask{
		Task:     NewTask(TaskTypeRescanClient, clientID),
		ClientID: clientID,
		pipeline: pipeline,
	}
}

func (t *RescanClientTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	attributed, err := t.pipeline.Rescan(ctx, t.ClientID, rescanWindow, rescanPoolLimit)
	if err != nil {
		return fmt.Errorf("failed to rescan client: %w", err)
	}

	slog.Info("Task completed",
		"type", "RescanClient",
		"client_id", t.ClientID,
		"duration", t.GetDuration(),
		"attributed", attributed)

	return nil
}
