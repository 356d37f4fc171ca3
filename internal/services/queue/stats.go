package queue

import "fmt"

// GetQueueStats combines the broker's view of the queue with this process's counters.
func (q *QueueService) GetQueueStats() (map[string]interface{}, error) {
	info, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue %s: %w", q.queueName, err)
	}

	return map[string]interface{}{
		"name":           info.Name,
		"pending":        info.Messages,
		"consumers":      info.Consumers,
		"local_workers":  q.activeWorkers.Load(),
		"jobs_completed": q.completed.Load(),
		"jobs_failed":    q.failed.Load(),
	}, nil
}

// HealthCheck reports the broker connection state.
func (q *QueueService) HealthCheck() string {
	switch {
	case q.conn == nil || q.conn.IsClosed():
		return "unhealthy: connection closed"
	case q.channel == nil:
		return "unhealthy: channel not available"
	}
	return "healthy"
}
