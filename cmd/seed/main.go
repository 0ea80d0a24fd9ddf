package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"lashstudio/internal/database"
	"lashstudio/internal/domain"
	"lashstudio/internal/repository"
	"lashstudio/internal/timegrid"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "lashstudio.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	services := repository.NewServiceRepository(db)
	slots := repository.NewSlotRepository(db)

	// ================== CATALOG ==================
	existing, err := services.ListAll(ctx)
	if err != nil {
		log.Fatal("catalog check failed:", err)
	}
	if len(existing) == 0 {
		log.Println("Creating catalog...")
		catalog := []domain.Service{
			{
				Name:        "Наращивание ресниц",
				Description: "Любой объём",
				Price:       250000,
				DurationMin: 120,
				IsActive:    true,
				SortOrder:   1,
				Class:       domain.ServiceMain,
			},
			{
				Name:        "Наращивание нижних",
				Description: "Наращивание только нижних ресниц",
				Price:       50000,
				DurationMin: 20,
				IsActive:    true,
				SortOrder:   2,
				Class:       domain.ServiceAddon,
			},
			{
				Name:        "Коррекция",
				Description: "Коррекция наращивания",
				Price:       150000,
				DurationMin: 60,
				IsActive:    true,
				SortOrder:   3,
				Class:       domain.ServiceMain,
			},
		}
		for i := range catalog {
			if err := services.Create(ctx, &catalog[i]); err != nil {
				log.Fatal("service create failed:", err)
			}
			log.Printf("Created service: %s (id=%d)", catalog[i].Name, catalog[i].ID)
		}
	} else {
		log.Printf("Catalog already has %d services, skipping", len(existing))
	}

	// ================== SCHEDULE ==================
	log.Println("Opening the next 7 days...")
	ranges := timegrid.HourRange(timegrid.DefaultOpenFrom, timegrid.DefaultOpenTo)
	for day := 1; day <= 7; day++ {
		date := time.Now().UTC().AddDate(0, 0, day).Format("2006-01-02")
		if err := slots.CreateRanges(ctx, date, ranges); err != nil {
			log.Fatal("slot create failed:", err)
		}
		log.Printf("Opened %s (%02d:00-%02d:00)", date, timegrid.DefaultOpenFrom, timegrid.DefaultOpenTo)
	}

	log.Println("Seed completed!")
}
