package model

// TaskStatus is the lifecycle state of an upload task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "Pending" // queued, not picked up yet
	TaskStatusStarting  TaskStatus = "Starting"
	TaskStatusUploading TaskStatus = "Uploading"
	TaskStatusStopping  TaskStatus = "Stopping" // stop requested, worker not done yet
	TaskStatusStopped   TaskStatus = "Stopped"
	TaskStatusCompleted TaskStatus = "Completed"
	TaskStatusError     TaskStatus = "Error"
)

func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive reports whether the task still occupies a worker. Pending tasks
// are not active: they can be started or dropped without coordination.
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusStarting || ts == TaskStatusUploading || ts == TaskStatusStopping
}

// IsFinished reports whether the task reached a terminal state.
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}
