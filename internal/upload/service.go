package upload

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lifetime-memories/repogallery/internal/imaging"
	"github.com/lifetime-memories/repogallery/internal/model"
	"github.com/lifetime-memories/repogallery/internal/platform"
)

// Task and commit constants
const (
	TaskIDPrefix = "upload-"

	OriginalCommitFormat  = "Add %s"
	ThumbnailCommitFormat = "Add thumbnail for %s"
)

// Progress checkpoints for the fixed upload stages
const (
	progressRead      = 0.10
	progressEncoded   = 0.40
	progressOriginal  = 0.75
	progressThumbnail = 1.0
)

// Uploader is the slice of the GitHub client the service needs.
type Uploader interface {
	UploadFile(ctx context.Context, repo, path string, content []byte, message, sha string) error
}

// Service handles image upload operations. Each accepted file is re-encoded
// as JPEG, paired with a downscaled thumbnail, and both are committed to the
// target repository.
type Service struct {
	tasks         map[string]*model.UploadTask
	tasksMutex    sync.RWMutex
	uploader      Uploader
	thumbnailSize int
	jpegQuality   int
	onUpdate      func(*model.UploadTask) // callback for UI updates
}

// NewService creates a new upload service
func NewService(uploader Uploader, thumbnailSize, jpegQuality int) *Service {
	if thumbnailSize <= 0 {
		thumbnailSize = imaging.DefaultThumbnailSize
	}
	return &Service{
		tasks:         make(map[string]*model.UploadTask),
		uploader:      uploader,
		thumbnailSize: thumbnailSize,
		jpegQuality:   jpegQuality,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.UploadTask)) {
	s.onUpdate = callback
}

// AddTask queues an upload of the local image into the repository
func (s *Service) AddTask(repo, localPath string) (*model.UploadTask, error) {
	if !platform.IsSupportedImage(localPath) {
		return nil, fmt.Errorf("unsupported image file: %s", localPath)
	}

	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	// Check for duplicate uploads of the same file into the same repository
	for _, task := range s.tasks {
		if task.RepoName == repo && task.LocalPath == localPath && !task.Status.IsFinished() {
			return nil, fmt.Errorf("upload already in progress for file: %s", localPath)
		}
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("input file does not exist: %s", localPath)
	}

	task := &model.UploadTask{
		ID:         generateTaskID(),
		RepoName:   repo,
		LocalPath:  localPath,
		RemotePath: platform.RemoteName(localPath),
		Status:     model.TaskStatusPending,
		FileSize:   info.Size(),
		StartedAt:  time.Now(),
	}

	s.tasks[task.ID] = task

	go s.startTask(task)

	return task, nil
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (*model.UploadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// GetAllTasks returns all tasks
func (s *Service) GetAllTasks() []*model.UploadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.UploadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// StopTask stops a running task
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}

	if !task.Status.IsActive() && task.Status != model.TaskStatusPending {
		return fmt.Errorf("task is not active: %s", task.Status)
	}

	task.Status = model.TaskStatusStopping
	s.notifyUpdate(task)

	// The actual stopping is handled in the task goroutine
	return nil
}

// startTask runs one upload to completion
func (s *Service) startTask(task *model.UploadTask) {
	s.setStatus(task, model.TaskStatusStarting)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monitor for stop requests
	go func() {
		for {
			s.tasksMutex.RLock()
			status := task.Status
			s.tasksMutex.RUnlock()

			if status == model.TaskStatusStopping {
				cancel()
				return
			}
			if status.IsFinished() {
				return
			}
			time.Sleep(100 * time.Millisecond)
		}
	}()

	s.setStatus(task, model.TaskStatusUploading)

	err := s.upload(ctx, task)

	s.tasksMutex.Lock()
	if err != nil {
		if ctx.Err() == context.Canceled {
			task.Status = model.TaskStatusStopped
		} else {
			task.Status = model.TaskStatusError
			task.LastError = err.Error()
		}
	} else {
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	if err != nil {
		log.Warn().Str("task", task.ID).Str("file", task.LocalPath).Err(err).Msg("upload finished with error")
	} else {
		log.Info().Str("task", task.ID).Str("repo", task.RepoName).Str("path", task.RemotePath).Msg("upload completed")
	}
}

// upload performs the fixed stages: read, re-encode, commit original, commit
// thumbnail.
func (s *Service) upload(ctx context.Context, task *model.UploadTask) error {
	data, err := os.ReadFile(task.LocalPath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	s.setProgress(task, progressRead)

	img, err := imaging.Decode(data)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	original, err := imaging.EncodeJPEG(img, s.jpegQuality)
	if err != nil {
		return err
	}
	thumb, err := imaging.EncodeJPEG(imaging.Thumbnail(img, s.thumbnailSize), s.jpegQuality)
	if err != nil {
		return err
	}
	s.setProgress(task, progressEncoded)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	message := fmt.Sprintf(OriginalCommitFormat, task.RemotePath)
	if err := s.uploader.UploadFile(ctx, task.RepoName, task.RemotePath, original, message, ""); err != nil {
		return err
	}
	s.setProgress(task, progressOriginal)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	message = fmt.Sprintf(ThumbnailCommitFormat, task.RemotePath)
	thumbPath := platform.ThumbnailPath(task.RemotePath)
	if err := s.uploader.UploadFile(ctx, task.RepoName, thumbPath, thumb, message, ""); err != nil {
		return err
	}
	s.setProgress(task, progressThumbnail)

	return nil
}

func (s *Service) setStatus(task *model.UploadTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	// A stop request outruns normal transitions
	if task.Status == model.TaskStatusStopping || task.Status.IsFinished() {
		s.tasksMutex.Unlock()
		return
	}
	task.Status = status
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

func (s *Service) setProgress(task *model.UploadTask, progress float64) {
	s.tasksMutex.Lock()
	task.Progress = progress
	task.Percent = int(progress * 100)
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.UploadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateTaskID generates a unique task ID using UUID v7 for better uniqueness and time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
