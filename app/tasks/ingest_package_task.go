package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cameronc-hrs/veripost/app/ingest"
)

type IngestPackageTask struct {
	Task
	machine *ingest.Machine
}

func NewIngestPackageTask(packageID string, machine *ingest.Machine) *IngestPackageTask {
	return &IngestPackageTask{
		Task:    NewTask(TaskTypeIngestPackage, packageID),
		machine: machine,
	}
}

func (t *IngestPackageTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.machine.Run(ctx, t.PackageID); err != nil {
		return fmt.Errorf("failed to ingest package: %w", err)
	}

	slog.Info("Task completed",
		"type", "IngestPackage",
		"package", t.PackageID,
		"duration", t.GetDuration())

	return nil
}
