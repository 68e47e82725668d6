package util

import (
	"time"

	"github.com/briandowns/spinner"
)

var processSpinner = spinner.New(spinner.CharSets[11], 100*time.Millisecond)

// StartSpinner starts the ~working~ spinner shown while a long-running
// child process, like the game engine, is doing its thing.
func StartSpinner() {
	processSpinner.Start()
}

func PauseSpinner() {
	processSpinner.Stop()
}
