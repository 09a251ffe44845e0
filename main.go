package main

import (
	"github.com/josephgoksu/taskdeck/cmd"
	"github.com/josephgoksu/taskdeck/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
