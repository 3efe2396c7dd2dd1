package main

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/u-root/u-root/pkg/termios"

	executor "github.com/digdag/docker-command-executor"
)

func main() {
	var req executor.Request
	err := json.NewDecoder(os.Stdin).Decode(&req)
	failIf("read request", err)

	projectPath, err := os.Getwd()
	failIf("get project path", err)

	// limit max columns; docker happily fills the whole terminal width with
	// build progress whitespace
	ws, err := termios.GetWinSize(os.Stdout.Fd())
	if err == nil {
		ws.Col = 100

		err = termios.SetWinSize(os.Stdout.Fd(), ws)
		if err != nil {
			logrus.Warn("failed to set window size:", err)
		}
	}

	exec := executor.New(executor.LocalLauncher{})

	if path := os.Getenv("EXECUTOR_OPTS"); path != "" {
		exec.Opts, err = executor.LoadOpts(path)
		failIf("load opts", err)
	}

	task := req.Task()
	proc, err := exec.Start(projectPath, &task, req.ProcessSpec())
	failIf("start task", err)

	code, err := proc.Wait()
	failIf("wait for task", err)

	os.Exit(code)
}

func failIf(msg string, err error) {
	if err != nil {
		logrus.Fatalln("failed to", msg+":", err)
	}
}
