package main

import (
	"os"

	"github.com/wangyi68/hoyolab-auto-checkin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
