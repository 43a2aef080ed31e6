package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/liorion-nguyen/chess-master-app/engine"
	"github.com/liorion-nguyen/chess-master-app/logging"
	"github.com/liorion-nguyen/chess-master-app/rules"
)

func main() {
	log, err := logging.New(os.Getenv("LOG_LEVEL"), "console", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	uciLoop(os.Stdin, os.Stdout, engine.New(), log)
}

// uciLoop speaks UCI on in/out until "quit" or end of input. Diagnostics go
// to log; out carries protocol lines only.
func uciLoop(in io.Reader, out io.Writer, eng *engine.Engine, log zerolog.Logger) {
	scanner := bufio.NewScanner(in)
	board := rules.NewBoard()
	difficulty := engine.Medium

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Fprintln(out, "id name Chess Master")
			fmt.Fprintln(out, "id author Chess Master team")
			fmt.Fprintf(out, "option name Difficulty type combo default %s", difficulty)
			for _, d := range engine.Difficulties() {
				fmt.Fprintf(out, " var %s", d)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			board = rules.NewBoard()
		case "quit":
			return
		case "stop":
			// searches are depth bounded and finish on their own
		case "d":
			fmt.Fprintln(out, "info string fen", board.FEN())
		case "eval":
			fmt.Fprintf(out, "info string eval %.2f\n", float64(engine.Evaluate(board)))
		case "position":
			next, err := parsePosition(tokens[1:])
			if err != nil {
				log.Warn().Err(err).Str("line", line).Msg("bad position command")
				continue
			}
			board = next
		case "setoption":
			d, err := parseDifficultyOption(tokens[1:])
			if err != nil {
				log.Warn().Err(err).Str("line", line).Msg("bad setoption command")
				continue
			}
			difficulty = d
		case "hint":
			m, ok, err := eng.Suggestion(board)
			report(out, log, eng, m, ok, err)
		case "go":
			d := difficulty
			for i := 1; i < len(tokens); i++ {
				switch strings.ToLower(tokens[i]) {
				case "depth":
					if i+1 >= len(tokens) {
						log.Warn().Msg("go depth without a value")
						continue
					}
					i++
					n, err := strconv.Atoi(tokens[i])
					if err != nil {
						log.Warn().Err(err).Msg("could not convert go depth")
						continue
					}
					d = tierForDepth(n, difficulty)
				case "wtime", "btime", "winc", "binc", "movetime", "movestogo":
					i++ // fixed-depth search ignores the clock
				case "infinite":
				default:
					log.Debug().Str("token", tokens[i]).Msg("unknown go subcommand")
				}
			}
			m, ok, err := eng.ChooseMove(board, d)
			report(out, log, eng, m, ok, err)
		default:
			log.Debug().Str("line", line).Msg("unknown command")
		}
	}
}

// parsePosition handles "startpos|fen <fields...> [moves <uci>...]".
func parsePosition(args []string) (*rules.Board, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("position: missing startpos or fen")
	}
	rest := args[1:]
	var fen string
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = rules.StartFEN
	case "fen":
		i := 0
		for i < len(rest) && strings.ToLower(rest[i]) != "moves" {
			i++
		}
		fen = strings.Join(rest[:i], " ")
		rest = rest[i:]
	default:
		return nil, fmt.Errorf("position: unexpected %q", args[0])
	}

	board, err := rules.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 || strings.ToLower(rest[0]) != "moves" {
		return board, nil
	}
	for _, s := range rest[1:] {
		m, err := board.ParseMove(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("position %s: %w", board.FEN(), err)
		}
		if _, err := board.Apply(m); err != nil {
			return nil, err
		}
	}
	return board, nil
}

// parseDifficultyOption reads "name Difficulty value <tier>".
func parseDifficultyOption(args []string) (engine.Difficulty, error) {
	if len(args) != 4 || !strings.EqualFold(args[0], "name") || !strings.EqualFold(args[2], "value") {
		return engine.Medium, fmt.Errorf("setoption: malformed %q", strings.Join(args, " "))
	}
	if !strings.EqualFold(args[1], "difficulty") {
		return engine.Medium, fmt.Errorf("setoption: unknown option %q", args[1])
	}
	return engine.ParseDifficulty(args[3])
}

// tierForDepth maps a requested depth onto the tier searching that deep.
func tierForDepth(depth int, fallback engine.Difficulty) engine.Difficulty {
	for _, d := range engine.Difficulties() {
		if d.Depth() == depth {
			return d
		}
	}
	return fallback
}

func report(out io.Writer, log zerolog.Logger, eng *engine.Engine, m rules.Move, ok bool, err error) {
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		fmt.Fprintln(out, "bestmove 0000")
		return
	}
	if !ok {
		fmt.Fprintln(out, "bestmove 0000")
		return
	}
	st := eng.Stats()
	fmt.Fprintf(out, "info depth %d score cp %d nodes %d time %d pv %s\n",
		st.Depth, st.Centipawns(), st.Nodes, st.Elapsed/time.Millisecond, m)
	fmt.Fprintln(out, "bestmove", m)
}
