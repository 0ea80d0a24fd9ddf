package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"lashstudio/internal/database"
	"lashstudio/internal/domain"
	"lashstudio/internal/modules/payment"
	"lashstudio/internal/repository"
)

// One-shot expiry sweep for deployments that run maintenance from
// cron/systemd timers instead of the in-process worker.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "lashstudio.db"
	}

	timeout := 15 * time.Minute
	if v := os.Getenv("PENDING_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("PENDING_TIMEOUT: invalid duration %q: %v", v, err)
		}
		timeout = d
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	bookings := repository.NewBookingRepository(db)
	services := repository.NewServiceRepository(db)
	svc := payment.NewService(bookings, services, noopNotifier{}, timeout)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, err := svc.SweepExpired(ctx)
	if err != nil {
		log.Fatal("sweep failed:", err)
	}
	log.Printf("sweep done expired=%d", expired)
}

type noopNotifier struct{}

func (noopNotifier) NotifyBookingConfirmed(context.Context, *domain.Booking, string) {}
