package chatpool

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/justmedusty/kryptos/framing"
)

// BroadcastConfig controls whether fan-out to recipients runs through a
// worker pool, adapted from the teacher's chunk-parallelism knobs to
// per-recipient encrypt+write jobs.
type BroadcastConfig struct {
	// MaxWorkers caps concurrent recipient writes. Zero means
	// runtime.NumCPU().
	MaxWorkers int

	// MinRecipientsForParallel is the recipient count (the sender
	// excluded) below which broadcast runs sequentially; fanning out
	// workers for two recipients is pure overhead.
	MinRecipientsForParallel int
}

// DefaultBroadcastConfig mirrors the teacher's DefaultParallelConfig
// defaults.
func DefaultBroadcastConfig() BroadcastConfig {
	return BroadcastConfig{
		MaxWorkers:               runtime.NumCPU(),
		MinRecipientsForParallel: 4,
	}
}

// recipientJob is one frame destined for one connection.
type recipientJob struct {
	conn *framing.FramedConn
}

// Broadcast encrypts and writes message to every connection in the pool
// except exclude (the sender, per spec.md §4.6: each received frame is
// broadcast to all *other* connections). Each recipient's encrypt call
// runs through its own façade, so CBC/CTR recipients each get a fresh IV
// and RC4 recipients each advance their own keystream (spec.md §9: "a
// broadcast must not share one precomputed ciphertext across recipients").
// A single recipient's write failure does not abort the broadcast; it is
// best-effort per connection (spec.md §5).
func Broadcast(cfg BroadcastConfig, recipients []*framing.FramedConn, exclude uuid.UUID, message []byte) {
	jobs := make([]recipientJob, 0, len(recipients))
	for _, fc := range recipients {
		if fc.ID == exclude {
			continue
		}
		jobs = append(jobs, recipientJob{conn: fc})
	}
	if len(jobs) == 0 {
		return
	}

	numWorkers := cfg.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}

	if len(jobs) < cfg.MinRecipientsForParallel {
		for _, job := range jobs {
			writeRecipient(job, message)
		}
		return
	}

	var wg sync.WaitGroup
	jobChan := make(chan recipientJob, len(jobs))
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				// A panic inside one recipient's write must not take down
				// the broadcaster or any other in-flight recipient.
				recover()
			}()
			for job := range jobChan {
				writeRecipient(job, message)
			}
		}()
	}

	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)
	wg.Wait()
}

// writeRecipient writes message to one connection, swallowing errors: a
// broken recipient is discovered on its own receive thread's next read,
// not by the broadcaster.
func writeRecipient(job recipientJob, message []byte) {
	defer recover()
	_ = job.conn.Write(message)
}
