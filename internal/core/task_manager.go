package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/finsight-ai/finsight/internal/logging"
)

// Task execution statuses.
const (
	TaskCompleted = "completed"
	TaskFailed    = "failed"
)

// Task is one pending unit of work owned by the TaskManager from AddTask
// until the execution cycle that drains it.
type Task struct {
	ID        string  `json:"id"`
	AgentName string  `json:"agent"`
	Payload   Payload `json:"data"`
}

// TaskExecution is the record produced for each dispatched task.
type TaskExecution struct {
	TaskID string      `json:"task_id"`
	Status string      `json:"status"`
	Result AgentResult `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// TaskManager distributes tasks among registered agents. Queue and results
// are scoped to one orchestration cycle; concurrent top-level requests
// should each use their own instance.
type TaskManager struct {
	mu      sync.Mutex
	agents  map[string]Agent
	queue   []Task
	results map[string]AgentResult
}

// NewTaskManager creates an empty TaskManager.
func NewTaskManager() *TaskManager {
	return &TaskManager{
		agents:  make(map[string]Agent),
		results: make(map[string]AgentResult),
	}
}

// RegisterAgent adds an agent under name. Re-registering a name replaces
// the previous agent.
func (tm *TaskManager) RegisterAgent(name string, agent Agent) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.agents[name] = agent
	logging.Named("task_manager").Infow("registered agent", "agent", name)
}

// Agent returns the registered agent for name.
func (tm *TaskManager) Agent(name string) (Agent, bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	a, ok := tm.agents[name]
	return a, ok
}

// AddTask queues a task for agentName. When id is omitted one is generated
// from the agent name and the task's ordinal position in the current
// queue; uniqueness is only guaranteed within one draining cycle.
func (tm *TaskManager) AddTask(agentName string, payload Payload, id ...string) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, ok := tm.agents[agentName]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAgent, agentName)
	}

	taskID := fmt.Sprintf("%s_%d", agentName, len(tm.queue))
	if len(id) > 0 && id[0] != "" {
		taskID = id[0]
	}

	tm.queue = append(tm.queue, Task{ID: taskID, AgentName: agentName, Payload: payload})
	logging.Named("task_manager").Infow("added task", "task_id", taskID, "agent", agentName)
	return taskID, nil
}

// PendingTasks returns the number of queued tasks.
func (tm *TaskManager) PendingTasks() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.queue)
}

// Result returns the stored result for a task id.
func (tm *TaskManager) Result(taskID string) (AgentResult, bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	r, ok := tm.results[taskID]
	return r, ok
}

// Reset clears the queue and results between orchestration cycles.
func (tm *TaskManager) Reset() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.queue = nil
	tm.results = make(map[string]AgentResult)
}

// ExecuteAll drains the queue atomically and dispatches every task to its
// agent concurrently. Tasks added while a batch runs land in the next
// batch. Records come back in enqueue order, not completion order; a
// panicking agent yields a failed record instead of aborting the batch.
func (tm *TaskManager) ExecuteAll(ctx context.Context) []TaskExecution {
	tm.mu.Lock()
	batch := tm.queue
	tm.queue = nil
	agents := make(map[string]Agent, len(tm.agents))
	for name, a := range tm.agents {
		agents[name] = a
	}
	tm.mu.Unlock()

	records := make([]TaskExecution, len(batch))
	var wg sync.WaitGroup
	for i, task := range batch {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			records[i] = tm.dispatch(ctx, agents[task.AgentName], task)
		}(i, task)
	}
	wg.Wait()

	tm.mu.Lock()
	for _, rec := range records {
		if rec.Status == TaskCompleted {
			tm.results[rec.TaskID] = rec.Result
		}
	}
	tm.mu.Unlock()

	return records
}

// dispatch runs one task with fault isolation at the agent boundary.
func (tm *TaskManager) dispatch(ctx context.Context, agent Agent, task Task) (rec TaskExecution) {
	log := logging.Named("task_manager")
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("task panicked", "task_id", task.ID, "agent", task.AgentName, "panic", r)
			rec = TaskExecution{TaskID: task.ID, Status: TaskFailed, Error: fmt.Sprintf("%v", r)}
		}
	}()

	log.Infow("executing task", "task_id", task.ID, "agent", task.AgentName)
	result := agent.ProcessTask(ctx, task.Payload)
	log.Infow("task completed", "task_id", task.ID, "status", result.Status)

	return TaskExecution{TaskID: task.ID, Status: TaskCompleted, Result: result}
}
