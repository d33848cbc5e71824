package main

import (
	"log"
	"net/http"
	"os"

	"github.com/heronix/teacherdesk/core"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "CONSOLECTL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	errAndDie(conf.Validate())

	cli := commandLine{
		baseURL: "http://" + conf.Console.Addr,
		http:    &http.Client{Timeout: conf.Backends.Timeout},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
