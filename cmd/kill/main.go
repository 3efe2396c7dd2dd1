package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vrischmann/envconfig"

	"github.com/digdag/docker-command-executor/client"
)

type config struct {
	Endpoint string `envconfig:"DIGDAG_ENDPOINT,default=http://127.0.0.1:65432"`
}

func main() {
	var cfg config
	err := envconfig.Init(&cfg)
	failIf("parse config from env", err)

	if len(os.Args) != 2 {
		usage()
	}

	attemptID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		usage()
	}

	err = client.New(cfg.Endpoint).KillAttempt(context.Background(), attemptID)
	failIf("kill attempt", err)

	fmt.Printf("kill requested for session attempt %d\n", attemptID)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: kill <attempt-id>")
	os.Exit(2)
}

func failIf(msg string, err error) {
	if err != nil {
		logrus.Fatalln("failed to", msg+":", err)
	}
}
