// main is the entry point of the casewatch CLI.
package main

import (
	"github.com/huangsam/casewatch/cmd"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/history"
)

func main() {
	defer history.CloseHistory()
	cmd.SetHistoryManager(history.Manager)
	if err := cmd.Execute(); err != nil {
		history.CloseHistory()
		contract.LogFatal("Command failed", err)
	}
}
