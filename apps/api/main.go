package main

import (
	"log"
	"os"
	"path/filepath"

	echoapi "github.com/pacclub/pacsite/apps/api/echo"
	"github.com/pacclub/pacsite/core"
	"github.com/pacclub/pacsite/core/club"
	"github.com/pacclub/pacsite/core/content"
	backendsvc "github.com/pacclub/pacsite/services/backend"
	emailsvc "github.com/pacclub/pacsite/services/email"
	logsvc "github.com/pacclub/pacsite/services/logger"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up services
	var logger core.Logger
	if core.Conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService(core.Conf.AppName, core.Conf.Newsletter.FromEmail)
	} else {
		mailSvc = emailsvc.NewSendgridService(core.Conf.SendgridAPIKey, core.Conf.AppName, core.Conf.Newsletter.FromEmail, logger)
	}

	backend := backendsvc.NewService(core.Conf.Backend.BaseURL, core.Conf.Backend.Timeout)
	contentSvc := content.NewService(backend, mailSvc, logger)

	roster, err := club.LoadRoster(filepath.Join(core.Conf.WorkDir, "assets", "teams.json"))
	errAndDie(std, err)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:       core.Conf.Server.Addr,
			ContentSvc: contentSvc,
			Roster:     roster,
			Logger:     logger,
		},
	)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
