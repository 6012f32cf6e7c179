package main

import (
	"fmt"
	"log"
	"time"

	"oskar-api/configs"
	"oskar-api/routes"
	"oskar-api/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)

	// migrate + seed
	configs.SetupDatabase()
	if err := configs.SeedLookups(); err != nil {
		log.Fatalf("seed lookups failed: %v", err)
	}
	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}

	// redis holds anonymous session carts
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	hub := ws.NewPanierHub()
	go hub.Run()

	r := gin.Default()
	cartSvc := routes.RegisterRoutes(r, cfg, rdb, hub)

	// sweep stale authenticated carts; anonymous ones expire via redis TTL
	go func() {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for range t.C {
			cartSvc.ExpireStale(cfg.CartRetention)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("listening on", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
