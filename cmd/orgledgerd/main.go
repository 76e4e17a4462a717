package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orgledger/clients"
	"orgledger/config"
	"orgledger/native/authority"
	"orgledger/native/bounty"
	"orgledger/native/params"
	"orgledger/observability/logging"
	"orgledger/observability/metrics"
	"orgledger/rpc"
	"orgledger/state"
	"orgledger/storage"
)

const (
	rpcTokenEnv          = "ORGLEDGER_RPC_TOKEN"
	collaboratorTokenEnv = "ORGLEDGER_COLLABORATOR_TOKEN"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	logger := logging.Setup("orgledgerd", logging.ParseLevel(cfg.LogLevel))

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	manager := state.NewManager(db)
	settings := params.NewStore(manager)

	auths := authority.NewEngine()
	auths.SetState(manager)

	collaboratorToken := strings.TrimSpace(os.Getenv(collaboratorTokenEnv))
	dial := func(endpoint string) *clients.Client {
		opts := []clients.Option{}
		if collaboratorToken != "" {
			opts = append(opts, clients.WithAuthToken(collaboratorToken))
		}
		return clients.New(endpoint, opts...)
	}

	bounties := bounty.NewEngine()
	bounties.SetState(manager)
	bounties.SetAuthority(auths)
	bounties.SetSettings(settings)
	bounties.SetOrgRegistry(clients.NewOrgRegistry(dial(cfg.Collaborators.OrgRegistryURL)))
	bounties.SetCriteriaService(clients.NewCriteriaService(dial(cfg.Collaborators.CriteriaURL)))
	bounties.SetBadgeService(clients.NewBadgeService(dial(cfg.Collaborators.BadgesURL)))
	bounties.SetReviewService(clients.NewReviewService(dial(cfg.Collaborators.ReviewsURL)))
	bounties.SetTransferService(clients.NewTransferService(dial(cfg.Collaborators.TransfersURL)))
	bounties.SetParticipantChecker(clients.NewParticipantChecker(dial(cfg.Collaborators.ChecksURL)))
	bounties.SetSelf(cfg.EngineAccount)
	bounties.SetFeeTreasury(cfg.FeeTreasury)
	bounties.SetCollaboratorAccounts(cfg.CriteriaAccount, cfg.CumulativeAccount, cfg.StatisticsAccount)
	bounties.SetEmitter(metrics.NewEmitter(newEventLogger(logger)))

	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("starting metrics server", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	token := strings.TrimSpace(os.Getenv(rpcTokenEnv))
	if token == "" {
		logger.Warn("RPC token not configured; mutating methods will be rejected", "env", rpcTokenEnv)
	}
	server := rpc.NewServer(bounties, auths, settings, token, logger)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
