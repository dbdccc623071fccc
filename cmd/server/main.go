package main

import (
	"net/http"

	"github.com/seftonlabs/loanledger/internal/api"
	"github.com/seftonlabs/loanledger/internal/config"
	"github.com/seftonlabs/loanledger/internal/ingestion"
	"github.com/seftonlabs/loanledger/internal/logging"
	"github.com/seftonlabs/loanledger/internal/report"
	"github.com/seftonlabs/loanledger/internal/repository"
)

func main() {
	cfg, err := config.ProcessEnvironmentVariables()
	if err != nil {
		panic(err)
	}

	log := logging.SetupLogging(cfg.LogLevel)

	log.WithField("path", cfg.DBPath).Info("initializing database")
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to init DB")
	}
	defer db.Close()

	txnRepo := repository.NewTransactionRepo(db)
	ingestSvc := ingestion.NewService(txnRepo, log)
	reportSvc := report.NewService(txnRepo)

	router := api.NewRouter(txnRepo, ingestSvc, reportSvc, log)

	log.WithField("port", cfg.Port).Info("loan settlement ledger listening")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
