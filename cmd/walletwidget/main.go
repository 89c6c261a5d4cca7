package main

import (
	"os"

	"github.com/amarshat/walletwidget/cmd/walletwidget/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
