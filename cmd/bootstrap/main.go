// Package main 初始化世界观资料表并写入预置条目
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/infrastructure/persistence/memory"
	"z-novel-studio/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting worldbuilding bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	app, cleanup, err := wire.InitializeBootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	if err := app.Postgres.AutoMigrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Println("Schema migrated")

	refs := memory.ReferencesFromSeed(cfg.Worldbuilding.Seed)
	if len(refs) == 0 {
		fmt.Println("No seed references configured, nothing to import")
		return
	}
	for _, ref := range refs {
		if ref.ID == "" || ref.NovelID == "" {
			log.Fatalf("seed reference %q requires id and novel_id", ref.Name)
		}
		if _, err := entity.ParseReferenceKind(string(ref.Kind)); err != nil {
			log.Fatalf("invalid seed reference %q: %v", ref.ID, err)
		}
	}
	if err := app.Worldbuilding.Upsert(ctx, refs); err != nil {
		log.Fatalf("failed to import seed references: %v", err)
	}

	fmt.Printf("Imported %d worldbuilding references\n", len(refs))
}
