package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/config"
	dbpkg "github.com/mediconnect-dev/telehealth-scheduler/internal/db"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/middleware"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	runner := routes.RegisterRoutes(r, db, cfg)
	runner.Start()
	defer runner.Stop()

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
