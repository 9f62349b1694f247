package fuzz

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/colorfulnotion/sloppyvm/candidate"
	"github.com/colorfulnotion/sloppyvm/log"
)

// DefectSink persists defect reports discovered during a run. The corpus
// store in the storage package is the production implementation; tests
// supply in-memory sinks.
type DefectSink interface {
	SaveDefect(input []byte, report []byte) error
}

// Config describes one fuzzing session.
type Config struct {
	NumTests  int
	Seed      int64
	Generator Generator
	Impl      candidate.Implementation
	Workers   int        // <=1 means sequential
	Corpus    DefectSink // optional
	Verbose   bool
}

// Session drives differential testing of one candidate implementation
// against the reference machine.
type Session struct {
	cfg Config
}

// NewSession validates the configuration. Contract violations here are
// fatal to the whole run, not per-case outcomes. Suite runs need only an
// implementation; Run additionally checks the randomized-run fields.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Impl == nil {
		return nil, fmt.Errorf("%w: no implementation", errInvalidConfig)
	}
	return &Session{cfg: cfg}, nil
}

// runCase executes one differential test and returns the defect report if
// the candidate diverged from the reference.
func (s *Session) runCase(testIndex int, bytecode []byte, stats *Stats) *Report {
	stats.Total++

	expected, invalid := RunReference(bytecode)
	if invalid {
		stats.InvalidBytecodes++
	}
	actual := RunCandidate(bytecode, s.cfg.Impl)
	if _, ok := actual.(Crash); ok {
		stats.Crashes++
	}

	if Equivalent(expected, actual) {
		log.Trace(log.OracleMonitoring, "outcomes agree", "test", testIndex, "kind", Kind(expected))
		return nil
	}

	stats.BugsFound++
	report := NewReport(testIndex, bytecode, s.cfg.Impl.Version(), expected, actual)
	return &report
}

func (s *Session) handleDefect(report *Report) {
	if s.cfg.Verbose {
		fmt.Println(report.String())
	}
	log.Debug(log.FuzzMonitoring, "divergence", "test", report.TestIndex, "version", report.Version, "input", report.Input)

	if s.cfg.Corpus == nil {
		return
	}
	payload, err := report.JSON()
	if err != nil {
		log.Error(log.CorpusMonitoring, "Failed to serialize defect report", "err", err)
		return
	}
	if err := s.cfg.Corpus.SaveDefect(report.Bytecode(), payload); err != nil {
		log.Error(log.CorpusMonitoring, "Failed to persist defect", "err", err)
	}
}

// Run executes the configured number of randomized test cases. With
// Workers > 1 the work is sharded across goroutines; either way the
// result is deterministic in (Seed, NumTests, Generator, Impl, Workers).
func (s *Session) Run() (Stats, []Report, error) {
	if s.cfg.NumTests <= 0 {
		return Stats{}, nil, fmt.Errorf("%w: num tests must be positive, got %d", errInvalidConfig, s.cfg.NumTests)
	}
	if s.cfg.Generator == nil {
		return Stats{}, nil, fmt.Errorf("%w: no generator", errInvalidConfig)
	}
	if s.cfg.Workers > 1 {
		stats, reports := s.runParallel()
		return stats, reports, nil
	}
	rng := rand.New(rand.NewSource(s.cfg.Seed))
	stats, reports := s.runShard(rng, 0, s.cfg.NumTests)
	return stats, reports, nil
}

func (s *Session) runShard(rng *rand.Rand, base, count int) (Stats, []Report) {
	var stats Stats
	var reports []Report
	for i := 0; i < count; i++ {
		bytecode := s.cfg.Generator(rng)
		log.Trace(log.GenMonitoring, "generated input", "test", base+i, "bytes", len(bytecode))
		if report := s.runCase(base+i, bytecode, &stats); report != nil {
			reports = append(reports, *report)
			s.handleDefect(report)
		}
	}
	return stats, reports
}

// shardSeedPrime decorrelates the per-worker random streams derived from
// the session seed. Mixing happens in uint64 so the stride wraps instead
// of overflowing.
const shardSeedPrime uint64 = 0x9E3779B97F4A7C15

func shardSeed(seed int64, worker int) int64 {
	return int64(uint64(seed) + uint64(worker+1)*shardSeedPrime)
}

func (s *Session) runParallel() (Stats, []Report) {
	workers := s.cfg.Workers
	per := s.cfg.NumTests / workers
	extra := s.cfg.NumTests % workers

	shardStats := make([]Stats, workers)
	shardReports := make([][]Report, workers)

	var wg sync.WaitGroup
	base := 0
	for i := 0; i < workers; i++ {
		count := per
		if i < extra {
			count++
		}
		wg.Add(1)
		go func(worker, base, count int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(shardSeed(s.cfg.Seed, worker)))
			shardStats[worker], shardReports[worker] = s.runShard(rng, base, count)
		}(i, base, count)
		base += count
	}
	wg.Wait()

	var stats Stats
	var reports []Report
	for i := 0; i < workers; i++ {
		stats.Merge(shardStats[i])
		reports = append(reports, shardReports[i]...)
	}
	return stats, reports
}

// RunSuite runs a pre-built deterministic suite instead of randomized
// inputs. Case order follows the suite order.
func (s *Session) RunSuite(cases [][]byte) (Stats, []Report) {
	var stats Stats
	var reports []Report
	for i, bytecode := range cases {
		if report := s.runCase(i, bytecode, &stats); report != nil {
			reports = append(reports, *report)
			s.handleDefect(report)
		}
	}
	return stats, reports
}
