package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ccsafarmai/farmai/internal/cli"
	"github.com/ccsafarmai/farmai/internal/server"
	"github.com/ccsafarmai/farmai/internal/server/config"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
	"github.com/ccsafarmai/farmai/internal/server/services"
)

func main() {

	_ = godotenv.Load()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd != "create-admin" {
		if err := cli.Run(context.Background(), cmd, nil, os.Stdin, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	rm := repomanager.NewPostgresRepositoryManager()
	db, err := server.OpenDatabase(ctx, cfg, rm)
	if err != nil {
		log.Fatal(err)
	}

	err = cli.Run(ctx, cmd, services.NewAdminService(db, rm), os.Stdin, os.Stdout)
	db.Close()
	if err != nil {
		log.Fatal(err)
	}
}
