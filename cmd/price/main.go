package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .envがなくても環境変数で動作する
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
