package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskTargetsSweep finds targets whose period has ended.
const TaskTargetsSweep = "sales.targets.sweep"

// TaskTargetRecompute recomputes the open target of one salesperson.
const TaskTargetRecompute = "sales.targets.recompute"

type TargetRecomputePayload struct {
	SalesPersonID string `json:"salesPersonId"`
}

func NewTargetsSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTargetsSweep, nil)
}

func NewTargetRecomputeTask(payload TargetRecomputePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTargetRecompute, data), nil
}

func ParseTargetRecomputePayload(task *asynq.Task) (TargetRecomputePayload, error) {
	var payload TargetRecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return TargetRecomputePayload{}, err
	}
	return payload, nil
}
