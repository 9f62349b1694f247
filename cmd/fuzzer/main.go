// SloppyVM Differential Fuzzer - finds divergence between candidate
// SloppyVM implementations and the reference machine. This binary:
// 1. Generates bytecode (randomized strategies or deterministic suites)
// 2. Runs the reference machine and one candidate on identical input
// 3. Persists every divergence to the defect corpus
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/sloppyvm/candidate"
	"github.com/colorfulnotion/sloppyvm/common"
	"github.com/colorfulnotion/sloppyvm/expr"
	"github.com/colorfulnotion/sloppyvm/fuzz"
	"github.com/colorfulnotion/sloppyvm/log"
	"github.com/colorfulnotion/sloppyvm/storage"
	"github.com/colorfulnotion/sloppyvm/vm"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "fuzzer",
		Short: "SloppyVM differential fuzzer",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	var (
		numTests  int
		seed      int64
		implName  string
		genName   string
		workers   int
		corpusDir string
		chartPath string
		depth     int
		logLevel  string
		debug     string
		verbose   bool
	)

	registry := candidate.Default()

	openCorpus := func() (*storage.CorpusStore, error) {
		if corpusDir == "" {
			return nil, nil
		}
		return storage.NewCorpusStore(corpusDir)
	}

	finish := func(stats fuzz.Stats, title string) {
		fmt.Print(stats.Summary())
		if verbose {
			fmt.Println(stats.DumpMetrics())
		}
		if chartPath != "" {
			if err := fuzz.WriteStatsChart(stats, title, chartPath); err != nil {
				fmt.Printf("Failed to write chart: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Chart written to %s\n", chartPath)
		}
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run randomized differential testing against one implementation",
		Run: func(cmd *cobra.Command, args []string) {
			log.InitLogger(logLevel)
			for _, m := range strings.Split(debug, ",") {
				if m = strings.TrimSpace(m); m != "" {
					log.EnableModule(m)
				}
			}

			impl, err := registry.Resolve(implName)
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
			gen, err := fuzz.ForName(genName)
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
			corpus, err := openCorpus()
			if err != nil {
				fmt.Printf("Failed to open corpus: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("Fuzzing %s: %d tests, generator=%s, seed=%d, workers=%d\n",
				implName, numTests, genName, seed, workers)

			cfg := fuzz.Config{
				NumTests:  numTests,
				Seed:      seed,
				Generator: gen,
				Impl:      impl,
				Workers:   workers,
				Verbose:   verbose,
			}
			if corpus != nil {
				defer corpus.Close()
				cfg.Corpus = corpus
			}

			session, err := fuzz.NewSession(cfg)
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
			stats, _, err := session.Run()
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
			finish(stats, fmt.Sprintf("Fuzzing %s (%s)", implName, genName))
		},
	}

	var suiteCmd = &cobra.Command{
		Use:   "suite",
		Short: "Run the deterministic comprehensive suite against one implementation",
		Run: func(cmd *cobra.Command, args []string) {
			log.InitLogger(logLevel)

			impl, err := registry.Resolve(implName)
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
			corpus, err := openCorpus()
			if err != nil {
				fmt.Printf("Failed to open corpus: %v\n", err)
				os.Exit(1)
			}

			cases := fuzz.ComprehensiveSuite(depth)
			fmt.Printf("Running comprehensive suite against %s: %d cases (expression depth %d)\n",
				implName, len(cases), depth)

			cfg := fuzz.Config{Impl: impl, Verbose: verbose}
			if corpus != nil {
				defer corpus.Close()
				cfg.Corpus = corpus
			}

			session, err := fuzz.NewSession(cfg)
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
			stats, _ := session.RunSuite(cases)
			finish(stats, fmt.Sprintf("Comprehensive suite %s", implName))
		},
	}

	var execCmd = &cobra.Command{
		Use:   "exec <hex-bytecode>",
		Short: "Execute hex bytecode on the reference machine and print the result",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			bytecode := common.FromHex(args[0])
			if bytecode == nil {
				fmt.Printf("Invalid hex input: %s\n", args[0])
				os.Exit(1)
			}
			for _, line := range vm.DisassembleBytecode(bytecode) {
				fmt.Printf("  %s\n", line)
			}
			state, err := vm.Run(bytecode)
			if err != nil {
				fmt.Printf("Execution failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Final stack (bottom-to-top): %v\n", state.Stack())
		},
	}

	var genCmd = &cobra.Command{
		Use:   "gen",
		Short: "Synthesize one expression program and show its tree, bytecode and result",
		Run: func(cmd *cobra.Command, args []string) {
			rng := rand.New(rand.NewSource(seed))
			e := expr.Random(rng, depth, nil)
			fmt.Print(expr.Tree(e))

			bytecode := expr.CompileBytes(e)
			fmt.Printf("Bytecode: %s\n", common.ToHex(bytecode))
			fmt.Printf("Program:  %s\n", vm.Disassemble(expr.Compile(e)))

			state, err := vm.Run(bytecode)
			if err != nil {
				fmt.Printf("Execution failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Result:   %v\n", state.Stack())
		},
	}

	var versionsCmd = &cobra.Command{
		Use:   "versions",
		Short: "List the registered candidate implementations",
		Run: func(cmd *cobra.Command, args []string) {
			for _, v := range registry.Versions() {
				fmt.Println(v)
			}
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fuzzer %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}

	rootCmd.PersistentFlags().StringVar(&implName, "impl", "v1", "Candidate implementation to test")
	rootCmd.PersistentFlags().StringVar(&corpusDir, "corpus-dir", "", "Defect corpus directory (empty: no persistence)")
	rootCmd.PersistentFlags().StringVar(&chartPath, "chart", "", "Write an HTML stats chart to this path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, crit)")
	rootCmd.PersistentFlags().StringVar(&debug, "debug", "", "Extra log modules to enable (comma separated)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print every divergence and the metrics dump")

	runCmd.Flags().IntVarP(&numTests, "num-tests", "n", 1000, "Number of randomized test cases")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	runCmd.Flags().StringVar(&genName, "generator", fuzz.GenMixed, "Generator family (random, structured, expression, mixed)")
	runCmd.Flags().IntVar(&workers, "workers", 1, "Parallel workers (per-worker seeds derive from --seed)")

	suiteCmd.Flags().IntVar(&depth, "depth", 1, "Maximum expression enumeration depth")

	genCmd.Flags().IntVar(&depth, "depth", fuzz.DefaultMaxExprDepth, "Maximum expression depth")
	genCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(suiteCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
