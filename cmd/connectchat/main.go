package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/connectchat/internal/app"
	"github.com/matheus3301/connectchat/internal/config"
	"go.uber.org/fx"
)

func main() {
	configFlag := flag.String("config", "", "config file path (overrides $CONNECTCHAT_CONFIG)")
	writeConfig := flag.Bool("write-config", false, "write the effective config to the config path and exit")
	flag.Parse()

	path := config.Resolve(*configFlag)
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig {
		if err := config.Save(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("config written to %s\n", path)
		return
	}

	fxApp := fx.New(app.Module(cfg))
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fxApp.Run()
}
