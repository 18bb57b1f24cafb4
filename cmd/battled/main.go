package main

import (
	"flag"
	"net/http"

	"go.uber.org/zap"

	"battlesim/internal/api"
	"battlesim/internal/content"
)

func main() {
	var dataDir, addr string
	flag.StringVar(&dataDir, "data", "assets/battle", "content pack dir")
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := content.Load(dataDir)
	if err != nil {
		logger.Fatal("load content pack", zap.String("dir", dataDir), zap.Error(err))
	}

	srv := api.NewServer(store, logger)
	logger.Info("battled listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
