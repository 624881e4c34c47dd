package main

import (
	"log"
	"os"

	"github.com/pacclub/pacsite/core"
	"github.com/pacclub/pacsite/core/content"
	backendsvc "github.com/pacclub/pacsite/services/backend"
	emailsvc "github.com/pacclub/pacsite/services/email"
	logsvc "github.com/pacclub/pacsite/services/logger"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up services
	backend := backendsvc.NewService(core.Conf.Backend.BaseURL, core.Conf.Backend.Timeout)
	mailSvc := emailsvc.NewConsoleService(core.Conf.AppName, core.Conf.Newsletter.FromEmail)
	svc := content.NewService(backend, mailSvc, logsvc.NewStdLogger(logger))

	// start CLI
	cli := commandLine{svc: svc}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
