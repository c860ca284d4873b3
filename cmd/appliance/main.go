// Command appliance serves the fake Cloud Provider management UI
// standalone, for debugging page objects against a visible browser.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/AndreyMenezes/integration-tests/internal/appliance"
	"github.com/AndreyMenezes/integration-tests/internal/config"
	"github.com/AndreyMenezes/integration-tests/internal/obs"
)

func main() {
	obs.Init()
	log := obs.Pkg("main")

	addr, seed := config.ParseFlags()
	cfg := config.MustLoadConfig(addr, seed)
	cfg.PrintStartupSummary()

	store := appliance.NewStore()
	for i := 0; i < cfg.SeedCount; i++ {
		_, err := store.AddProvider(appliance.Provider{
			Name:      fmt.Sprintf("provider-%02d", i),
			Type:      "ec2",
			Zone:      cfg.SeedZone,
			Instances: i + 1,
			Images:    i,
		})
		if err != nil {
			log.Error("seed provider failed", "error", err)
			os.Exit(1)
		}
	}

	app := appliance.New(store)
	log.Info("listening", "addr", cfg.ListenAddr, "providers", cfg.SeedCount)
	if err := http.ListenAndServe(cfg.ListenAddr, app.Handler()); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
