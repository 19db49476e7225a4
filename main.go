package main

import (
	"fmt"
	"os"

	"bookstore/cmd"
	"bookstore/config"
)

func main() {
	configPath := os.Getenv("BOOKSTORE_CONFIG")

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := cmd.NewApp(cfg)
	if err != nil {
		fmt.Printf("Failed to build application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Printf("Application exited with error: %v\n", err)
		os.Exit(1)
	}
}
