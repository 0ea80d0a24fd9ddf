package payment

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker runs the expiry sweep on a fixed interval. A missed webhook
// only delays a booking's expiry until the next tick.
type Worker struct {
	service  *Service
	interval time.Duration
	cron     *cron.Cron
}

func NewWorker(service *Service, interval time.Duration) *Worker {
	return &Worker{
		service:  service,
		interval: interval,
		cron:     cron.New(),
	}
}

func (w *Worker) Start() error {
	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := w.cron.AddFunc(spec, w.runOnce); err != nil {
		return err
	}
	w.cron.Start()
	log.Printf("level=info msg=expiry sweep scheduled interval=%s", w.interval)
	return nil
}

func (w *Worker) Stop() {
	w.cron.Stop()
}

func (w *Worker) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("level=error msg=expiry sweep panicked err=%v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	expired, err := w.service.SweepExpired(ctx)
	if err != nil {
		log.Printf("level=error msg=expiry sweep failed err=%v", err)
		return
	}
	if expired > 0 {
		log.Printf("level=info msg=expiry sweep done expired=%d", expired)
	}
}
