// cmd/scholarship-assistant/workers.go
package main

import (
	"scholarship-workers/internal/common/camunda"
	"scholarship-workers/internal/common/config"
	llmsynthesis "scholarship-workers/internal/workers/ai-conversation/llm-synthesis"
	scholarshipchat "scholarship-workers/internal/workers/ai-conversation/scholarship-chat"
	normalizeprofile "scholarship-workers/internal/workers/scholarship/normalize-profile"
	rankcandidates "scholarship-workers/internal/workers/scholarship/rank-candidates"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// startWorkers opens one job worker per registered task type.
func startWorkers(client zbc.Client, a *app) []worker.JobWorker {
	handlers := map[string]worker.JobHandler{
		scholarshipchat.TaskType:  a.chat.Handle,
		normalizeprofile.TaskType: a.normalizer.Handle,
		rankcandidates.TaskType:   rankcandidates.NewHandler(rankcandidates.LoadConfig(a.cfg.Matching), a.log).Handle,
		llmsynthesis.TaskType:     llmsynthesis.NewHandler(llmsynthesis.LoadConfig(a.cfg.Completion), a.orchestrator, a.log).Handle,
	}

	var started []worker.JobWorker
	for taskType, handler := range handlers {
		w := camunda.StartWorker(client, taskType, config.GetWorkerConfig(a.cfg, taskType), handler, a.log)
		if w != nil {
			started = append(started, w)
		}
	}
	return started
}
