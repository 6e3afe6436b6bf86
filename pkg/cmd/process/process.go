package process

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-trackmap-go/log"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/assets"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/config"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/db/postgres"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/events"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/service"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/utils"
)

var (
	appConfig  config.Config // holds processed config values
	trackId    int
	processAll bool
)

//nolint:funlen // by design
func NewProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "computes racing lines from track map assets",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if trackId == 0 && !processAll {
				return fmt.Errorf("either --track or --all must be given")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&trackId,
		"track",
		0,
		"process only the track with this id")
	cmd.Flags().BoolVar(&processAll,
		"all",
		false,
		"process every track in the asset index")
	cmd.Flags().StringVar(&appConfig.PauseBetweenTracks,
		"pause",
		"2s",
		"delay between tracks when processing a batch")
	cmd.Flags().BoolVar(&appConfig.DryRun,
		"dry-run",
		false,
		"compute racing lines without persisting them")
	cmd.Flags().StringVar(&config.AssetTimeout,
		"asset-timeout",
		"15s",
		"timeout for asset downloads")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"if set, processed tracks are announced on this NATS server")
	cmd.Flags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.Flags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

//nolint:funlen,cyclop // by design
func runProcess(ctx context.Context) error {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)

	waitForRequiredServices()

	assetTimeout, err := time.ParseDuration(config.AssetTimeout)
	if err != nil {
		assetTimeout = 15 * time.Second
	}
	pause, err := time.ParseDuration(appConfig.PauseBetweenTracks)
	if err != nil {
		log.Warn("Invalid pause value. Setting default 2s", log.ErrorField(err))
		pause = 2 * time.Second
	}

	pool := postgres.InitWithUrl(config.DB)
	defer pool.Close()

	client := assets.NewClient(
		assets.WithIndexURL(config.URL),
		assets.WithTimeout(assetTimeout))

	serviceOpts := []service.Option{service.WithDryRun(appConfig.DryRun)}
	if config.NatsURL != "" {
		nc, natsErr := nats.Connect(config.NatsURL)
		if natsErr != nil {
			log.Warn("could not connect NATS server", log.ErrorField(natsErr))
		} else {
			publisher := events.NewNatsPublisher(nc)
			defer publisher.Close()
			serviceOpts = append(serviceOpts, service.WithPublisher(publisher))
		}
	}
	srv := service.InitRacingLineService(pool,
		processing.NewProcessor(processing.WithLayerFetcher(client)),
		serviceOpts...)

	index, err := client.FetchIndex(ctx)
	if err != nil {
		log.Error("could not fetch asset index", log.ErrorField(err))
		return err
	}
	log.Info("Asset index fetched", log.Int("tracks", len(index)))

	work := lo.ToSlicePtr(index)
	if !processAll {
		work = lo.Filter(work, func(item *model.TrackAsset, _ int) bool {
			return item.TrackID == trackId
		})
		if len(work) == 0 {
			return fmt.Errorf("track %d not found in asset index", trackId)
		}
	}

	res, err := srv.ProcessBatch(ctx, work, pause)
	if err != nil {
		return err
	}
	for _, failure := range res.Failures {
		log.Warn("track failed",
			log.Int("trackId", failure.TrackID),
			log.String("reason", failure.Reason))
	}
	log.Info("Processing done",
		log.Int("processed", len(res.Processed)),
		log.Int("failed", len(res.Failures)))
	if len(res.Processed) == 0 && len(res.Failures) > 0 {
		return fmt.Errorf("all %d tracks failed", len(res.Failures))
	}
	return nil
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}

	wg := sync.WaitGroup{}
	checkTcp := func(addr string) {
		if err = utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
		wg.Done()
	}
	checkHttp := func(url string) {
		if err = utils.WaitForHTTPResponse(url, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
		wg.Done()
	}

	if postgresAddr := utils.ExtractFromDBURL(config.DB); postgresAddr != "" {
		wg.Add(1)
		go checkTcp(postgresAddr)
	}
	if config.URL != "" {
		wg.Add(1)
		go checkHttp(config.URL)
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	log.Debug("Required services are available")
}
