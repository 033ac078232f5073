package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
	"github.com/ALEX0661/OPTISCHEDULE/internal/progress"
	"github.com/ALEX0661/OPTISCHEDULE/internal/scheduler"
	"github.com/ALEX0661/OPTISCHEDULE/internal/web"
)

var (
	catalogDir = "catalog"
	outFile    = "schedule.json"
	addr       = ":8080"
	workers    = 10
	seed       = int64(0)
	verbose    = false
)

func main() {
	cmdRoot := &cobra.Command{
		Use:   "optischedule",
		Short: "Hierarchical course schedule generator",
		Long: "A tool to assign course sessions to rooms and time slots\n" +
			"using a phased constraint solver with feasibility-first retries",
	}
	cmdRoot.PersistentFlags().StringVar(&catalogDir, "catalog", catalogDir, "directory holding courses.json, rooms.json, time_settings.json, days.json")
	cmdRoot.PersistentFlags().IntVar(&workers, "workers", workers, "number of concurrent solver workers")
	cmdRoot.PersistentFlags().BoolVarP(&verbose, "verbose", "v", verbose, "log solver search progress")

	cmdGen := &cobra.Command{
		Use:   "gen",
		Short: "generate a schedule and write it to a file",
		Run:   commandGen,
	}
	cmdGen.Flags().StringVar(&outFile, "out", outFile, "output file for the generated schedule")
	cmdGen.Flags().Int64Var(&seed, "seed", seed, "random seed for the critical-phase search (0 = fresh)")
	cmdRoot.AddCommand(cmdGen)

	cmdServe := &cobra.Command{
		Use:   "serve",
		Short: "serve schedule generation over HTTP",
		Run:   commandServe,
	}
	cmdServe.Flags().StringVar(&addr, "addr", addr, "listen address")
	cmdRoot.AddCommand(cmdServe)

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

func buildConfig() scheduler.Config {
	cfg := scheduler.DefaultConfig()
	cfg.Workers = workers
	cfg.LogSearchProgress = verbose
	cfg.Seed = seed
	return cfg
}

func commandGen(cmd *cobra.Command, args []string) {
	log := newLogger()
	defer log.Sync()

	src := catalog.NewFileSource(catalogDir)
	if err := validateCatalog(src); err != nil {
		log.Fatal("invalid catalog", zap.Error(err))
	}

	board := progress.NewBoard()
	sched := scheduler.New(src, buildConfig(), log, board, "cli")
	events, err := sched.Generate(context.Background())
	if errors.Is(err, scheduler.ErrImpossible) {
		log.Fatal("no feasible schedule for this catalog", zap.Error(err))
	}
	if err != nil {
		log.Fatal("generation failed", zap.Error(err))
	}

	raw, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		log.Fatal("encoding schedule", zap.Error(err))
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(outFile, raw, 0o644); err != nil {
		log.Fatal("writing schedule", zap.Error(err))
	}
	log.Info("schedule written", zap.String("file", outFile), zap.Int("events", len(events)))
}

func commandServe(cmd *cobra.Command, args []string) {
	log := newLogger()
	defer log.Sync()

	server := web.NewServer(catalog.NewFileSource(catalogDir), buildConfig(), log)
	log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func validateCatalog(src catalog.Source) error {
	courses, err := src.Courses()
	if err != nil {
		return err
	}
	rooms, err := src.Rooms()
	if err != nil {
		return err
	}
	times, err := src.TimeSettings()
	if err != nil {
		return err
	}
	days, err := src.Days()
	if err != nil {
		return err
	}
	return catalog.Validate(courses, rooms, times, days)
}
