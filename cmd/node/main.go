package main

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nodalync/node/internal/api"
	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/channel"
	"github.com/nodalync/node/internal/config"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/ops"
	"github.com/nodalync/node/internal/settlement"
	"github.com/nodalync/node/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, reading configuration from the environment directly")
	}

	log := logrus.WithField("component", "main")
	log.Info("starting node")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbURL := requireEnv("DATABASE_URL")
	idx, err := store.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer idx.Close()
	if err := idx.InitSchema(ctx); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	contentDir := getEnvOrDefault("CONTENT_DIR", "./data/content")
	content, err := store.NewContentStore(contentDir)
	if err != nil {
		log.Fatalf("open content store at %s: %v", contentDir, err)
	}

	cache := store.NewContentCache(cacheMaxBytes())
	clock := capability.SystemClock{}
	queue := settlement.NewQueue(idx.Pool())

	selfPriv, selfPub, err := ndlcrypto.GenerateIdentity()
	if err != nil {
		log.Fatalf("generate identity: %v", err)
	}
	self := ndlcrypto.PeerIdFromPublicKey(selfPub)
	log.Infof("node identity: %s", self.String())

	channels := channel.New(channel.NewPgStore(idx.Pool()), clock, self)

	node := ops.New(
		self,
		&selfPriv,
		content,
		idx,
		cache,
		channels,
		queue,
		ndltypes.NoBondChecker{},
		clock,
		config.DefaultOpsConfig(),
	)

	hub := api.NewHub()
	go hub.Run()

	r := api.SetupRouter(node, hub)
	port := getEnvOrDefault("PORT", "7472")

	log.Infof("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func cacheMaxBytes() int64 {
	const defaultMaxBytes = 512 * 1024 * 1024
	v := os.Getenv("CACHE_MAX_BYTES")
	if v == "" {
		return defaultMaxBytes
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultMaxBytes
	}
	return n
}

// requireEnv reads a required environment variable and exits if it is
// not set.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		logrus.Fatalf("required environment variable %s is not set", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
