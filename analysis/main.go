package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/profile"

	glauber "github.com/glauber-mc/glauber_go/pkg"
	"github.com/glauber-mc/glauber_go/pkg/runner"
)

var logger glauber.SlogLogger

func init() {
	logger = glauber.NewSlogLogger(os.Stdout, os.Stderr)
}

func main() {
	os.Exit(run())
}

func run() int {
	configFilename := flag.String("config", "", "Configuration file path")
	typ := flag.String("type", "", "Variation type, overrides the configuration file")
	flag.Parse()

	configuration, err := glauber.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return 1
	}
	if *typ != "" {
		configuration.Type = *typ
	}
	glauber.SetConfiguration(configuration)
	glauber.SetLogger(logger)

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		glauber.PrintConfiguration(configuration, logger)
	}
	if err := configuration.Validate(); err != nil {
		message := fmt.Errorf("Invalid configuration: %w", err)
		logger.Error(message.Error())
		return 1
	}

	if configuration.ProfileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(configuration.ProfileDir), profile.Quiet).Stop()
	}

	result, err := runner.Run(configuration, configuration.Type, false)
	if err != nil {
		message := fmt.Errorf("Error running analysis for type %s: %w", configuration.Type, err)
		logger.Error(message.Error())
		return 1
	}

	message := fmt.Sprintf("%d events accepted for type %s (%s), output %s, %d ms",
		result.NEvents, result.Type, glauber.TypeDescription(result.Type), result.OutputFile, result.Duration.Milliseconds())
	logger.Info(message, "main")
	return 0
}
