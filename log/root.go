package log

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Module tags used to scope trace/debug output to one subsystem.
const (
	FuzzMonitoring   = "fuzz_mod"   // fuzzing session log
	OracleMonitoring = "oracle_mod" // differential oracle log
	GenMonitoring    = "gen_mod"    // bytecode generator log
	CorpusMonitoring = "corpus_mod" // defect corpus log
	VMMonitoring     = "vm_mod"     // reference machine log
)

var root atomic.Value

func init() {
	root.Store(&logger{inner: slog.New(discardHandler{})})
	DisableModule(GenMonitoring)
	DisableModule(VMMonitoring)
}

// ParseLevel converts a level name into a slog level.
func ParseLevel(lvl string) (slog.Level, error) {
	switch strings.ToUpper(lvl) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRIT", "CRITICAL":
		return LevelCrit, nil
	default:
		return 0, fmt.Errorf("invalid level: %s", lvl)
	}
}

// InitLogger installs a terminal logger at the given level on stderr.
func InitLogger(logLevel string) {
	lvl, err := ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	SetDefault(NewLogger(newTerminalHandler(os.Stderr, lvl)))
}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	root.Store(l)
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(Logger)
}

var defaultKnownModules = []string{FuzzMonitoring, OracleMonitoring, GenMonitoring, CorpusMonitoring, VMMonitoring}

// moduleEnabled keeps track of whether a module's trace/debug logging is on.
var moduleEnabled = initModules(defaultKnownModules)

func initModules(modules []string) map[string]bool {
	m := make(map[string]bool, len(modules))
	for _, module := range modules {
		m[module] = true
	}
	return m
}

// EnableModule enables trace/debug logging for the specified module.
func EnableModule(module string) {
	moduleEnabled[module] = true
}

// DisableModule disables trace/debug logging for the specified module.
func DisableModule(module string) {
	moduleEnabled[module] = false
}

func isModuleEnabled(module string) bool {
	enabled, ok := moduleEnabled[module]
	return ok && enabled
}

// Trace logs a message at the trace level for a specific module.
func Trace(module string, msg string, ctx ...interface{}) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(LevelTrace, module, msg, ctx...)
}

// Debug logs a message at the debug level for a specific module.
func Debug(module string, msg string, ctx ...interface{}) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(LevelDebug, module, msg, ctx...)
}

// Info and the remaining levels do not filter on module.
func Info(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelInfo, module, msg, ctx...)
}

func Warn(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelWarn, module, msg, ctx...)
}

func Error(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelError, module, msg, ctx...)
}

// Crit logs at the crit level and exits.
func Crit(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelCrit, module, msg, ctx...)
	os.Exit(1)
}
