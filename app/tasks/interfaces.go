package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the API layer to enqueue ingestion work and by the main
// application to manage background processing.
// Example usage:
//
//	scheduler := NewScheduler(packageRepo, machine)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewIngestPackageTask(packageID, machine))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
