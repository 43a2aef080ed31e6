package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/liorion-nguyen/chess-master-app/engine"
	"github.com/liorion-nguyen/chess-master-app/logging"
	"github.com/liorion-nguyen/chess-master-app/rules"
)

func main() {
	// --- Flags ---
	difficultyFlag := flag.String("difficulty", "expert", "difficulty tier: easy, medium, hard or expert")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	deterministic := flag.Bool("deterministic", false, "disable score noise and random moves")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	log, err := logging.New("info", "console", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	d, err := engine.ParseDifficulty(*difficultyFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -difficulty")
	}
	if *repeatFlag <= 0 {
		log.Fatal().Int("repeat", *repeatFlag).Msg("repeat must be positive")
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fen := rules.StartFEN
	if *fenFlag != "" {
		fen = *fenFlag
	}
	board, err := rules.FromFEN(fen)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -fen")
	}

	var opts []engine.Option
	if *deterministic {
		opts = append(opts, engine.Deterministic())
	}
	eng := engine.New(opts...)

	fmt.Printf("searchbench: fen=%q difficulty=%s repeat=%d\n", fen, d, *repeatFlag)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		m, ok, err := eng.ChooseMove(board, d)
		if err != nil {
			log.Fatal().Err(err).Int("iteration", i+1).Msg("search failed")
		}
		st := eng.Stats()
		totalNodes += st.Nodes
		if !ok {
			fmt.Printf("iteration %d: no move (%s)\n", i+1, board.Status())
			continue
		}
		fmt.Printf("iteration %d: bestmove %s (%s)  %s\n", i+1, m, m.SAN, st)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v  nodes: %d\n", totalElapsed, totalNodes)

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}
