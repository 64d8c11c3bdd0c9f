package main

import (
	"context"
	"flag"
	"log"
	"time"

	"birthday-coupons/internal/config"
	"birthday-coupons/internal/domain/model"
	pg "birthday-coupons/internal/infra/db/postgres"
	red "birthday-coupons/internal/infra/redis"
)

// demoProfile mirrors the shape of the seeded user-profile records.
type demoProfile struct {
	userID       string
	email        string
	displayName  string
	day, month   int
	unsubscribed bool
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	drop := flag.Bool("drop", false, "drop the coupon log table and exit (uninstall cleanup)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if *drop {
		if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS birthday_coupon_log`); err != nil {
			log.Fatalf("drop table: %v", err)
		}
		log.Println("coupon log table dropped")
		return
	}

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	store := red.NewProfileStore(redisClient)

	// A birthday today, one inside the default 7-day window, one just
	// outside it, a leap-day user, and an opted-out user.
	now := time.Now().In(cfg.Location())
	soon := now.AddDate(0, 0, 5)
	outside := now.AddDate(0, 0, 10)
	demos := []demoProfile{
		{userID: "1001", email: "ada@example.com", displayName: "Ada", day: now.Day(), month: int(now.Month())},
		{userID: "1002", email: "grace@example.com", displayName: "Grace", day: soon.Day(), month: int(soon.Month())},
		{userID: "1003", email: "linus@example.com", displayName: "Linus", day: outside.Day(), month: int(outside.Month())},
		{userID: "1004", email: "leap@example.com", displayName: "Leap", day: 29, month: 2},
		{userID: "1005", email: "quiet@example.com", displayName: "Quiet", day: soon.Day(), month: int(soon.Month()), unsubscribed: true},
	}

	for _, d := range demos {
		if err := store.SetIdentity(ctx, d.userID, d.email, d.displayName); err != nil {
			log.Fatalf("seed identity %s: %v", d.userID, err)
		}
		b, err := model.NewBirthday(d.day, d.month)
		if err != nil {
			log.Fatalf("seed birthday %s: %v", d.userID, err)
		}
		if err := store.SetBirthday(ctx, d.userID, b); err != nil {
			log.Fatalf("seed birthday %s: %v", d.userID, err)
		}
		if d.unsubscribed {
			if err := store.SetUnsubscribed(ctx, d.userID, true); err != nil {
				log.Fatalf("seed unsubscribe %s: %v", d.userID, err)
			}
		}
		log.Printf("seeded user %s (%s, birthday %s)", d.userID, d.email, b.MonthDay())
	}
	log.Printf("seeded %d demo profiles", len(demos))
}
