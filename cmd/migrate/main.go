package main

import (
	"flag"
	"fmt"
	"log"

	"forum_hub/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// 数据库迁移工具
// 用法:
//
//	go run ./cmd/migrate -action up
//	go run ./cmd/migrate -action down -steps 1
//	go run ./cmd/migrate -action version
func main() {
	action := flag.String("action", "up", "up / down / version / force")
	steps := flag.Int("steps", 0, "down 的步数，0 表示全部")
	forceVersion := flag.Int("force", -1, "force 的目标版本")
	path := flag.String("path", "migrations", "迁移脚本目录")
	flag.Parse()

	config.LoadConfig()
	cfg := config.GlobalConfig.Database

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode)

	m, err := migrate.New("file://"+*path, dsn)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	defer m.Close()

	switch *action {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("Migration up completed")

	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
		if err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("Migration down completed")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("Get version failed: %v", err)
		}
		log.Printf("Current version: %d, dirty: %v", version, dirty)

	case "force":
		if *forceVersion < 0 {
			log.Fatal("force requires -force <version>")
		}
		if err := m.Force(*forceVersion); err != nil {
			log.Fatalf("Force failed: %v", err)
		}
		log.Printf("Forced to version %d", *forceVersion)

	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}
