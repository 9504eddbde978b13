package main

import (
	"embed"
	"flag"
	"io/fs"
	"log"
	"net/http"

	"github.com/razzie/razgif/pkg/razgif"
)

//go:embed assets/*
var assets embed.FS

func main() {
	addr := flag.String("addr", ":8080", "http listen address")
	redisURL := flag.String("redis", "", "redis URL for session persistence")
	timeout := flag.Duration("timeout", razgif.DefaultKillTimeout, "idle session expiration")
	flag.Parse()

	assets, _ := fs.Sub(assets, "assets")
	mgr := razgif.NewSessionMgr(*redisURL, *timeout)
	srv := razgif.NewServer(assets, mgr)

	log.Printf("[razgif listening on %s]", *addr)
	log.Fatal(http.ListenAndServe(*addr, srv))
}
