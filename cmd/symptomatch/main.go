// symptomatch classifies symptom descriptions from the command line.
package main

import (
	"os"

	"github.com/zatekoja/symptomatch/backend/cmd/symptomatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
