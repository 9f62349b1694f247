package fuzz

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/sloppyvm/candidate"
)

// memorySink collects defect reports in memory for assertions.
type memorySink struct {
	mu      sync.Mutex
	defects [][]byte
}

func (m *memorySink) SaveDefect(input, report []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defects = append(m.defects, report)
	return nil
}

func mustImpl(t *testing.T, version string) candidate.Implementation {
	t.Helper()
	impl, err := candidate.Default().Resolve(version)
	require.NoError(t, err)
	return impl
}

func TestNewSessionValidation(t *testing.T) {
	_, err := NewSession(Config{NumTests: 10})
	require.ErrorIs(t, err, errInvalidConfig)

	gen, err := ForName(GenMixed)
	require.NoError(t, err)

	s, err := NewSession(Config{Impl: mustImpl(t, "v4"), Generator: gen})
	require.NoError(t, err)
	_, _, err = s.Run()
	assert.ErrorIs(t, err, errInvalidConfig) // NumTests missing

	s, err = NewSession(Config{Impl: mustImpl(t, "v4"), NumTests: 5})
	require.NoError(t, err)
	_, _, err = s.Run()
	assert.ErrorIs(t, err, errInvalidConfig) // Generator missing
}

func TestRunDeterministic(t *testing.T) {
	gen, err := ForName(GenMixed)
	require.NoError(t, err)

	run := func() (Stats, []Report) {
		s, err := NewSession(Config{
			NumTests:  500,
			Seed:      1234,
			Generator: gen,
			Impl:      mustImpl(t, "v2"),
		})
		require.NoError(t, err)
		stats, reports, err := s.Run()
		require.NoError(t, err)
		return stats, reports
	}

	stats1, reports1 := run()
	stats2, reports2 := run()
	assert.Equal(t, stats1, stats2)
	assert.Equal(t, reports1, reports2)
	assert.Equal(t, 500, stats1.Total)
}

// Worker seeds derive from the session seed by a wrapping uint64 stride:
// stable across runs, distinct across workers, and defined for any worker
// count even though the stride exceeds math.MaxInt64.
func TestShardSeedDerivation(t *testing.T) {
	seen := make(map[int64]bool)
	for worker := 0; worker < 16; worker++ {
		s := shardSeed(1234, worker)
		assert.Equal(t, s, shardSeed(1234, worker))
		assert.False(t, seen[s], "worker %d reuses seed %d", worker, s)
		seen[s] = true
	}
	assert.NotEqual(t, shardSeed(0, 0), shardSeed(1, 0))
}

func TestRunParallelConsistency(t *testing.T) {
	gen, err := ForName(GenMixed)
	require.NoError(t, err)

	s, err := NewSession(Config{
		NumTests:  403, // not divisible by workers on purpose
		Seed:      99,
		Generator: gen,
		Impl:      mustImpl(t, "v1"),
		Workers:   4,
	})
	require.NoError(t, err)

	stats, reports, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 403, stats.Total)
	assert.Len(t, reports, stats.BugsFound)

	// Same config, same shard seeds, same result.
	again, _, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestRunSavesDefectsToSink(t *testing.T) {
	gen, err := ForName(GenStructured)
	require.NoError(t, err)

	sink := &memorySink{}
	s, err := NewSession(Config{
		NumTests:  300,
		Seed:      5,
		Generator: gen,
		Impl:      mustImpl(t, "v1"),
		Corpus:    sink,
	})
	require.NoError(t, err)

	stats, reports, err := s.Run()
	require.NoError(t, err)
	require.Positive(t, stats.BugsFound, "v1 should diverge within 300 structured cases")
	require.Len(t, sink.defects, len(reports))

	var r Report
	require.NoError(t, json.Unmarshal(sink.defects[0], &r))
	assert.Equal(t, "v1", r.Version)
	assert.NotEmpty(t, r.Input)
	assert.NotEqual(t, r.Expected.Kind, "", "expected outcome recorded")
}

// The comprehensive suite is the acceptance gate: it convicts every buggy
// implementation and acquits the correct one.
func TestComprehensiveSuiteVerdicts(t *testing.T) {
	suite := ComprehensiveSuite(1)

	tests := []struct {
		version string
		buggy   bool
	}{
		{"v1", true},
		{"v2", true},
		{"v3", true},
		{"v4", false},
	}
	for _, tc := range tests {
		t.Run(tc.version, func(t *testing.T) {
			s, err := NewSession(Config{Impl: mustImpl(t, tc.version)})
			require.NoError(t, err)
			stats, reports := s.RunSuite(suite)
			assert.Equal(t, len(suite), stats.Total)
			if tc.buggy {
				assert.Positive(t, stats.BugsFound, "%s must be caught", tc.version)
			} else {
				assert.Zero(t, stats.BugsFound, "v4 must be clean, first report: %v", reports)
			}
		})
	}
}

// v3's only defect is the index-7 boundary; the byte-boundary suite alone
// must catch it.
func TestByteBoundarySuiteCatchesV3(t *testing.T) {
	s, err := NewSession(Config{Impl: mustImpl(t, "v3")})
	require.NoError(t, err)
	stats, reports := s.RunSuite(ByteBoundaryTests())
	require.Positive(t, stats.BugsFound)
	for _, r := range reports {
		assert.Equal(t, "success", r.Expected.Kind)
		assert.Equal(t, "success", r.Actual.Kind)
	}
}

// The underflow suite never convicts an implementation with correct
// underflow handling, even a buggy one like v2.
func TestUnderflowSuiteAgainstV2(t *testing.T) {
	s, err := NewSession(Config{Impl: mustImpl(t, "v2")})
	require.NoError(t, err)
	stats, _ := s.RunSuite(StackUnderflowTests())
	assert.Zero(t, stats.BugsFound)
	assert.Zero(t, stats.Crashes)
}
