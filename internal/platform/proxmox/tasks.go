package proxmox

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/craftctl/craftctl/internal/metrics"
)

// AwaitTask polls the task at a fixed interval until it reaches a terminal
// state or maxWait elapses. Cluster tasks are short (seconds to low
// minutes), so a constant small interval keeps both latency and request
// volume low without backoff machinery.
//
// Outcomes are kept strictly apart:
//   - stopped/OK: success, the final status is returned
//   - stopped with any other qualifier: *TaskError (the task failed
//     server-side)
//   - still running at maxWait: *TaskTimeoutError: the outcome is unknown
//     and the task may yet complete; the caller decides whether to re-poll,
//     abandon, or alert
//   - ctx cancelled: ctx.Err(); the wait stops, the backend task does not
func (c *RealClient) AwaitTask(ctx context.Context, node, upid string, maxWait time.Duration) (*TaskStatus, error) {
	if maxWait <= 0 {
		maxWait = c.timeouts.TaskWait
	}

	deadline := time.NewTimer(maxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval())
	defer ticker.Stop()

	for {
		status, err := c.taskStatus(ctx, node, upid)
		if err != nil {
			return nil, err
		}
		if status.Finished() {
			if status.OK() {
				return status, nil
			}
			return nil, &TaskError{UPID: upid, ExitStatus: status.ExitStatus}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, &TaskTimeoutError{UPID: upid, MaxWait: maxWait}
		case <-ticker.C:
		}
	}
}

// taskStatus fetches the current state of a task.
func (c *RealClient) taskStatus(ctx context.Context, node, upid string) (*TaskStatus, error) {
	metrics.TaskPolls.Inc()
	path := fmt.Sprintf("/nodes/%s/tasks/%s/status", node, url.PathEscape(upid))
	var data struct {
		Status     string `json:"status"`
		ExitStatus string `json:"exitstatus"`
	}
	if err := c.get(ctx, path, &data); err != nil {
		return nil, fmt.Errorf("status of task %s: %w", upid, err)
	}
	return &TaskStatus{UPID: upid, Status: data.Status, ExitStatus: data.ExitStatus}, nil
}
