package main

import (
	"log"

	"github.com/formrunner/formrunner/app"
	corecmd "github.com/formrunner/formrunner/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("formrunner: %v", err)
	}
}
