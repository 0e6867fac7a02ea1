package main

import (
	"context"
	"log"
	"net/http"

	"rentdesk/internal/config"
	"rentdesk/internal/dbmongo"
	"rentdesk/internal/media"
)

func main() {
	cfg := config.LoadConfig()

	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Close(context.Background())

	mediaServer := media.NewHTTPServer(mongoClient)

	log.Printf("✅ Media server starting on port %s", cfg.Server.MediaPort)
	log.Printf("Serving attachments at: http://localhost:%s/media/{fileId}", cfg.Server.MediaPort)

	if err := http.ListenAndServe(":"+cfg.Server.MediaPort, mediaServer); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
