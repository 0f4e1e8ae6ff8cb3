package kafka_client

import "time"

const (
	BATCH_SIZE    = 25
	BATCH_TIMEOUT = 5 * time.Second
	POLL_TIMEOUT  = 500 * time.Millisecond
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second
)
