// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"trip-recommender/internal/common/config"
	"trip-recommender/internal/common/logger"
)

// JobWorkerOpener is the part of zbc.Client needed to open job workers.
type JobWorkerOpener interface {
	NewJobWorker() worker.JobWorkerBuilderStep1
}

var _ JobWorkerOpener = zbc.Client(nil)

// WorkerGroup tracks the job workers opened by the worker manager.
type WorkerGroup struct {
	mu      sync.Mutex
	workers map[string]worker.JobWorker
	log     logger.Logger
}

func NewWorkerGroup(log logger.Logger) *WorkerGroup {
	return &WorkerGroup{
		workers: make(map[string]worker.JobWorker),
		log:     log,
	}
}

// Start opens a job worker for taskType unless wcfg disables it. It returns false for
// disabled workers.
func (g *WorkerGroup) Start(client JobWorkerOpener, taskType string, wcfg config.WorkerConfig, handler func(worker.JobClient, entities.Job)) bool {
	if !wcfg.Enabled {
		g.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType).
		Open()

	g.mu.Lock()
	g.workers[taskType] = jw
	g.mu.Unlock()

	g.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Count returns the number of open workers.
func (g *WorkerGroup) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.workers)
}

// Close stops every worker and waits up to timeout for in-flight jobs.
func (g *WorkerGroup) Close(timeout time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for taskType, jw := range g.workers {
		jw.Close()
		done := make(chan struct{})
		go func() {
			jw.AwaitClose()
			close(done)
		}()
		select {
		case <-done:
			g.log.Info("worker stopped", map[string]interface{}{"taskType": taskType})
		case <-time.After(timeout):
			g.log.Warn("worker did not stop in time", map[string]interface{}{"taskType": taskType})
		}
		delete(g.workers, taskType)
	}
}
