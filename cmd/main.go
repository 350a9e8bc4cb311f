package main

import (
	"os"

	"github.com/guimilreu/quizz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
