package main

import (
	"github.com/pagecrest/blogapi/config"
	"github.com/pagecrest/blogapi/routes"
	"github.com/pagecrest/blogapi/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase()

	r := routes.SetupRouter(db, utils.NewRedisCache())

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
