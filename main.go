/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/aquaevents/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
}
