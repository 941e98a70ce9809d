package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

// Planner produces an ordered analysis plan for a symbol. A malformed plan
// is a hard error; there is no safe default.
type Planner interface {
	GeneratePlan(ctx context.Context, symbol string) (*models.Plan, error)
}

// ManagerAgent turns an analysis request into queued tasks for the
// specialized agents.
type ManagerAgent struct {
	planner Planner
	tasks   *core.TaskManager
	log     *zap.SugaredLogger
}

func NewManagerAgent(planner Planner, tasks *core.TaskManager) *ManagerAgent {
	return &ManagerAgent{planner: planner, tasks: tasks, log: logging.Named("manager")}
}

func (a *ManagerAgent) Name() string { return "manager" }

func (a *ManagerAgent) Description() string {
	return "Coordinates tasks among specialized agents"
}

func (a *ManagerAgent) ProcessTask(ctx context.Context, payload core.Payload) core.AgentResult {
	symbol := payload.String("stock_symbol")
	if symbol == "" {
		return core.Errorf(a.Name(), "stock_symbol not provided")
	}

	plan, err := a.planner.GeneratePlan(ctx, symbol)
	if err != nil {
		a.log.Errorw("planning failed", "symbol", symbol, "error", err)
		return core.Errorf(a.Name(), fmt.Sprintf("Failed to create analysis plan: %v", err))
	}
	a.log.Infow("analysis plan created", "symbol", symbol, "tasks", len(plan.Items))

	taskIDs := make([]string, 0, len(plan.Items))
	for _, item := range plan.Items {
		taskPayload := core.Payload{
			"stock_symbol": symbol,
			"task":         item.Task,
			"details":      item.Details,
		}
		if name := payload.String("company_name"); name != "" {
			taskPayload["company_name"] = name
		}

		id, err := a.tasks.AddTask(item.Agent, taskPayload)
		if err != nil {
			// The model sometimes names agents that do not exist; one bad
			// plan item must not abort the rest.
			a.log.Warnw("skipping plan item", "agent", item.Agent, "error", err)
			continue
		}
		taskIDs = append(taskIDs, id)
	}

	return core.Success(a.Name(), map[string]any{
		"stock_symbol": symbol,
		"plan":         plan.Items,
		"task_ids":     taskIDs,
	}, "Analysis plan created and tasks distributed")
}
