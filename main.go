package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teeaychem/vsat/internal/parsers"
	"github.com/teeaychem/vsat/internal/sat"
)

var (
	flagFile         string
	flagCore         bool
	flagAnalysis     int
	flagStats        bool
	flagMaxConflicts int64
	flagTimeout      time.Duration
	flagVerbose      bool
	flagCPUProfile   bool
	flagMemProfile   bool
)

// exitCode is the code main exits with after a clean run: 10 for SAT, 0 for
// UNSAT, 20 for unknown. Errors exit 1 through cobra.
var exitCode = 1

var rootCmd = &cobra.Command{
	Use:   "vsat",
	Short: "A CDCL SAT solver for DIMACS CNF formulas",
	Long: "vsat decides the satisfiability of a DIMACS CNF formula using\n" +
		"conflict-driven clause learning. On unsatisfiable inputs it can report\n" +
		"an unsatisfiable core: a subset of the input clauses whose conjunction\n" +
		"suffices to derive the contradiction.",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagFile, "file", "f", "", "path to the DIMACS CNF instance")
	rootCmd.Flags().BoolVarP(&flagCore, "core", "c", false, "print an unsat core on UNSATISFIABLE")
	rootCmd.Flags().IntVar(&flagAnalysis, "analysis", sat.AnalysisFirstUIP, "conflict analysis variant (1: last-UIP, 2: dominator, 3: first-UIP)")
	rootCmd.Flags().BoolVar(&flagStats, "stats", false, "print search statistics")
	rootCmd.Flags().Int64Var(&flagMaxConflicts, "max-conflicts", -1, "stop with Unknown after this many conflicts (-1: no limit)")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", -1, "stop with Unknown after this much time (-1: no limit)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log search events to stderr")
	rootCmd.Flags().BoolVar(&flagCPUProfile, "cpuprof", false, "save pprof CPU profile in cpuprof")
	rootCmd.Flags().BoolVar(&flagMemProfile, "memprof", false, "save pprof memory profile in memprof")
	_ = rootCmd.MarkFlagRequired("file")
}

func newLogger() (*zap.Logger, error) {
	if !flagVerbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func run(cmd *cobra.Command, args []string) error {
	if flagAnalysis < sat.AnalysisLastUIP || flagAnalysis > sat.AnalysisFirstUIP {
		return fmt.Errorf("invalid analysis variant %d", flagAnalysis)
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if flagCPUProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			return err
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	opts := sat.DefaultOptions
	opts.Analysis = flagAnalysis
	opts.ComputeCore = flagCore
	opts.MaxConflicts = flagMaxConflicts
	opts.Timeout = flagTimeout
	opts.Logger = logger

	s := sat.NewSolver(opts)
	if err := parsers.LoadDIMACS(flagFile, strings.HasSuffix(flagFile, ".gz"), s); err != nil {
		return fmt.Errorf("could not parse instance: %w", err)
	}

	res := s.Solve()
	report(res)
	exitCode = res.Status.ExitCode()

	if flagMemProfile {
		f, err := os.Create("memprof")
		if err != nil {
			return err
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
	return nil
}

// report writes the result using DIMACS output conventions: an optional
// core block, an optional model line, optional statistics, and the verdict
// as the final line.
func report(res *sat.Result) {
	if res.Status == sat.StatusUnsat && flagCore {
		for _, clause := range res.Core {
			sb := strings.Builder{}
			for i, l := range clause {
				if i > 0 {
					sb.WriteByte(' ')
				}
				fmt.Fprintf(&sb, "%d", l.DIMACS())
			}
			fmt.Println(sb.String())
		}
	}

	if res.Status == sat.StatusSat {
		sb := strings.Builder{}
		sb.WriteString("c ASSIGNMENT:")
		for v, val := range res.Model {
			lit := v + 1
			if !val {
				lit = -lit
			}
			fmt.Fprintf(&sb, " %d", lit)
		}
		fmt.Println(sb.String())
	}

	if flagStats {
		printStats(res.Stats)
	}

	fmt.Printf("s %s\n", res.Status)
}

func printStats(st *sat.Stats) {
	fmt.Println("c STATS")
	fmt.Printf("c ITERATIONS: %d\n", st.Iterations)
	fmt.Printf("c CONFLICTS: %d\n", st.Conflicts)
	fmt.Printf("c DECISIONS: %d\n", st.Decisions)
	fmt.Printf("c PROPAGATIONS: %d\n", st.Propagations)
	fmt.Printf("c LEARNT: %d\n", st.Learned)
	fmt.Printf("c FORGETS: %d\n", st.Forgets)
	fmt.Printf("c AVG LBD: %.2f\n", st.MeanLBD())
	fmt.Printf("c TIME: %v\n", st.TotalTime)
	fmt.Printf("c \tPROPAGATION: %v\n", st.PropagationTime)
	fmt.Printf("c \tANALYSIS: %v\n", st.AnalysisTime)
	fmt.Printf("c \tREDUCTION: %v\n", st.ReductionTime)
	fmt.Printf("c \tCHOICE: %v\n", st.ChoiceTime)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}
