package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	glauber "github.com/glauber-mc/glauber_go/pkg"
)

var configuration glauber.Configuration

var logger glauber.SlogLogger

func init() {
	logger = glauber.NewSlogLogger(os.Stdout, os.Stderr)
}

func main() {
	os.Exit(run())
}

func run() int {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = glauber.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return 1
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

	numWorkers := configuration.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	// the HDF5 library is not thread safe
	if configuration.OutputFormat.Code == glauber.OutputHDF5 && numWorkers > 1 {
		logger.Info("HDF5 output selected, running with a single worker", "main")
		numWorkers = 1
	}

	start := time.Now()
	jobs := make(chan string, len(configuration.Types))
	results := make(chan WorkerResult, len(configuration.Types))

	for w := 1; w <= numWorkers; w++ {
		go worker(w, jobs, results)
	}
	for _, typ := range configuration.Types {
		jobs <- typ
	}
	close(jobs)

	failed := processWorkerResults(results, len(configuration.Types))

	duration := time.Since(start)
	message := fmt.Sprintf("%d types processed, %d failed, total time: %d ms", len(configuration.Types), failed, duration.Milliseconds())
	logger.Info(message, "main")
	if failed > 0 {
		return 1
	}
	return 0
}
