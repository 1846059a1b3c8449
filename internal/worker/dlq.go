package worker

// Jobs that exhaust their retries are parked in a per-queue Redis list
// ("dlq:jobs:pdf", "dlq:jobs:email") so a stuck invoice PDF or a bouncing
// client email can be inspected and re-queued by hand. The /health endpoint
// reports the backlog per queue.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// FailedJob is the envelope parked in the dead letter list. Payload is the
// original job payload untouched, so LMOVE back to the source queue after a
// fix only needs the payload re-wrapped in a Job.
type FailedJob struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

func deadLetterKey(queue string) string { return "dlq:" + queue }

func (p *Pool) moveToDeadLetter(ctx context.Context, queue string, job Job, cause error) {
	entry := FailedJob{
		Queue:    queue,
		Type:     job.Type,
		Payload:  job.Payload,
		Error:    cause.Error(),
		Attempts: maxAttempts,
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead letter: marshal failed")
		return
	}
	if err := p.rdb.LPush(ctx, deadLetterKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead letter: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Str("cause", cause.Error()).
		Int("attempts", maxAttempts).
		Msg("dead letter: job parked after exhausting retries")
}

// DeadLetterCounts reports the parked backlog for every known queue.
func DeadLetterCounts(ctx context.Context, rdb *redis.Client) (map[string]int64, error) {
	counts := make(map[string]int64, 2)
	for _, queue := range []string{QueuePDF, QueueEmail} {
		n, err := rdb.LLen(ctx, deadLetterKey(queue)).Result()
		if err != nil {
			return nil, err
		}
		counts[queue] = n
	}
	return counts, nil
}
