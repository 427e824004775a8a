// Licensed to Adam Shannon under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. The Moov Authors licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adamdecaf/farecheck/internal/api"
	"github.com/adamdecaf/farecheck/internal/browser"
	"github.com/adamdecaf/farecheck/internal/config"
	"github.com/adamdecaf/farecheck/internal/healthcheck"
	"github.com/adamdecaf/farecheck/internal/monitor"
	"github.com/adamdecaf/farecheck/internal/notify"

	"github.com/moov-io/base/log"
	"github.com/moov-io/base/stime"
)

var (
	flagConfig     = flag.String("config", "", "Filepath to configuration file")
	flagHttpAddr   = flag.String("http.addr", ":8080", "HTTP listen address")
	flagTick       = flag.Duration("tick", time.Minute, "How often to look for due entities")
	flagJitter     = flag.Duration("jitter", 0, "Maximum random delay before initial runs")
	flagAutomation = flag.String("automation", "", "Filepath of the automation command jobs are handed to")
	flagVersion    = flag.Bool("version", false, "Print the version of farecheck")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("farecheck %s", Version) //nolint:forbidigo
		return
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	logger := log.NewDefaultLogger().With(log.Fields{
		"app":     log.String("farecheck"),
		"version": log.String(Version),
	})

	reg, err := loadRegistry(*flagConfig)
	if err != nil {
		logger.Error().LogErrorf("reading %s failed: %v", *flagConfig, err)
		os.Exit(1)
	}

	timeService := stime.NewSystemTimeService()

	sched := monitor.NewScheduler(logger, timeService, *flagJitter)
	sched.Load(reg)

	pinger, err := healthcheck.NewPinger(logger)
	if err != nil {
		logger.Error().LogErrorf("setting up healthcheck pinger failed: %v", err)
		os.Exit(1)
	}

	executor := browser.NewCommandExecutor(logger, *flagAutomation, 0)
	notifier := notify.NewNotifier(logger)

	runner := monitor.NewRunner(logger, sched, executor, notifier, pinger, monitor.RunnerConfig{
		TickEvery: *flagTick,
	})

	server, err := api.Server(logger, *flagHttpAddr, sched)
	if err != nil {
		logger.Error().LogErrorf("running HTTP server failed: %v", err)
		os.Exit(1)
	}
	defer func() {
		if server != nil {
			server.Shutdown(ctx)
		}
	}()

	go handleSignals(ctx, logger, sched, cancelFunc)

	err = runner.Run(ctx)
	if err != nil && ctx.Err() == nil {
		logger.Error().LogErrorf("runner stopped: %v", err)
		os.Exit(1)
	}
}

// handleSignals reloads configuration on SIGHUP and shuts down on SIGINT or
// SIGTERM. A reload failure keeps the previous registry running.
func handleSignals(ctx context.Context, logger log.Logger, sched *monitor.Scheduler, cancelFunc context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ctx.Done():
			return

		case sig := <-signals:
			if sig != syscall.SIGHUP {
				logger.Logf("received %v, shutting down", sig)
				cancelFunc()
				return
			}

			reg, err := loadRegistry(*flagConfig)
			if err != nil {
				logger.Error().LogErrorf("reload of %s failed, keeping previous registry: %v", *flagConfig, err)
				continue
			}
			sched.Reload(reg)
		}
	}
}

func loadRegistry(path string) (*monitor.Registry, error) {
	// Without a config file everything can come from the environment
	tree := &config.Tree{}
	if path != "" {
		t, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		tree = t
	}
	if err := tree.ApplyEnv(); err != nil {
		return nil, err
	}
	return monitor.BuildRegistry(tree)
}
