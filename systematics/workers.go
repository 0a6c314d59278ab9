package main

import (
	"fmt"

	"github.com/glauber-mc/glauber_go/pkg/runner"
)

type WorkerResult struct {
	Result runner.Result
	Err    error
}

func worker(id int, jobs <-chan string, results chan<- WorkerResult) {
	for typ := range jobs {
		results <- runType(id, typ)
	}
}

func runType(id int, typ string) (res WorkerResult) {
	defer func() {
		if r := recover(); r != nil {
			res = WorkerResult{
				Result: runner.Result{Type: typ},
				Err:    fmt.Errorf("worker %d recovered from panic on type %s: %v", id, typ, r),
			}
		}
	}()

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Worker %d processing type %s", id, typ)
		logger.Info(message, "worker")
	}
	result, err := runner.Run(configuration, typ, true)
	return WorkerResult{Result: result, Err: err}
}

func processWorkerResults(results <-chan WorkerResult, nTypes int) int {
	failed := 0
	for i := 0; i < nTypes; i++ {
		res := <-results
		if res.Err != nil {
			message := fmt.Errorf("Error running analysis for type %s: %w", res.Result.Type, res.Err)
			logger.Error(message.Error())
			failed++
			continue
		}
		message := fmt.Sprintf("Type %s: %d events accepted, output %s, %d ms",
			res.Result.Type, res.Result.NEvents, res.Result.OutputFile, res.Result.Duration.Milliseconds())
		logger.Info(message, "main")
	}
	return failed
}
