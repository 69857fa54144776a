package main

import (
	"fmt"

	"github.com/temirov/treetouch/internal/cli"
	"github.com/temirov/treetouch/internal/utils"
)

// main is the entry point for the treetouch command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(applicationExecutionError.Error())
	}
}
