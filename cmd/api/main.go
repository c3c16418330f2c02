package main

import (
	"context"
	"log"

	"auth/internal/db"
	"auth/internal/platform/config"
	phttp "auth/internal/platform/http"
	"auth/internal/platform/notify"

	authhttp "auth/internal/modules/auth/http"
)

func main() {
	cfg := config.Load()

	dbpool := db.MustOpen(cfg.PGDSN)
	defer dbpool.Close()
	if err := db.RunMigrations(context.Background(), dbpool); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.LinkBase)
	authModule := authhttp.NewModulePG(dbpool, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL).WithMailer(mailer)
	app := phttp.NewServer(phttp.Options{AppName: "auth"}, authModule)

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
