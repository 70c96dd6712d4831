package main

import (
	"context"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"

	"typoguard/internal/config"
	"typoguard/internal/customrules"
	"typoguard/internal/server"
)

func main() {
	var (
		configPath string
		noRedis    bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&noRedis, "no-redis", false, "Serve the built-in catalog only")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	var srv *server.Server
	if noRedis {
		srv = server.New(nil, cfg.MaxUploadBytes)
	} else {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		srv = server.New(customrules.New(client, cfg.Redis.Key), cfg.MaxUploadBytes)
		if err := srv.Reload(context.Background()); err != nil {
			log.Printf("warning: %v", err)
		}
	}

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, srv.Handler()))
}
