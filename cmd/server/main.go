package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .envを読み込む
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
