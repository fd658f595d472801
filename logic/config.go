package logic

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// truthinessNames and divisionByZeroNames back the --truthiness and
// --division-by-zero flags, following the same string-enum pattern the
// CLI harness uses for log levels/formats.
var truthinessNames = map[string]Truthiness{
	"javascript": TruthinessJavaScript,
	"python":     TruthinessPython,
	"strict":     TruthinessStrict,
}

var divisionByZeroNames = map[string]DivisionByZeroPolicy{
	"return-bounds":   DivisionReturnBounds,
	"throw":           DivisionThrow,
	"return-null":     DivisionReturnNull,
	"return-infinity": DivisionReturnInfinity,
}

var nanHandlingNames = map[string]NaNHandling{
	"throw":          NaNThrow,
	"ignore":         NaNIgnore,
	"coerce-to-zero": NaNCoerceToZero,
	"return-null":    NaNReturnNull,
}

// Flags holds the flag names used by [Config.RegisterFlags], allowing
// callers to customize them while keeping sensible defaults.
type Flags struct {
	PreserveStructure string
	Truthiness        string
	NaNHandling       string
	DivisionByZero    string
}

// Config bridges CLI flags to the library, following the RegisterFlags /
// RegisterCompletions / NewEngine pattern used throughout this module.
type Config struct {
	PreserveStructure bool
	Truthiness        string
	NaNHandling       string
	DivisionByZero    string

	Flags Flags
}

// NewConfig returns a Config with default flag names and the engine's
// documented defaults.
func NewConfig() *Config {
	return &Config{
		Truthiness:     "javascript",
		NaNHandling:    "throw",
		DivisionByZero: "return-bounds",
		Flags: Flags{
			PreserveStructure: "preserve-structure",
			Truthiness:        "truthiness",
			NaNHandling:       "nan-handling",
			DivisionByZero:    "division-by-zero",
		},
	}
}

// RegisterFlags binds the config's fields to flags on fs.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.PreserveStructure, c.Flags.PreserveStructure, c.PreserveStructure,
		"treat unrecognized single-key objects as output-shape fields instead of operator calls")
	fs.StringVar(&c.Truthiness, c.Flags.Truthiness, c.Truthiness,
		"truthiness rule: javascript, python, or strict")
	fs.StringVar(&c.NaNHandling, c.Flags.NaNHandling, c.NaNHandling,
		"numeric coercion failure policy: throw, ignore, coerce-to-zero, or return-null")
	fs.StringVar(&c.DivisionByZero, c.Flags.DivisionByZero, c.DivisionByZero,
		"division-by-zero policy: return-bounds, throw, return-null, or return-infinity")
}

// RegisterCompletions registers shell completion values for the
// string-enum flags.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	if err := cmd.RegisterFlagCompletionFunc(c.Flags.Truthiness,
		completeFromSet(truthinessKeys())); err != nil {
		return err
	}

	if err := cmd.RegisterFlagCompletionFunc(c.Flags.NaNHandling,
		completeFromSet(nanHandlingKeys())); err != nil {
		return err
	}

	return cmd.RegisterFlagCompletionFunc(c.Flags.DivisionByZero,
		completeFromSet(divisionByZeroKeys()))
}

// NewEngine builds an [*Engine] from the config's current values.
func (c *Config) NewEngine() (*Engine, error) {
	truthiness, ok := truthinessNames[c.Truthiness]
	if !ok {
		return nil, fmt.Errorf("%w: unknown truthiness %q", ErrInvalidOption, c.Truthiness)
	}

	nanHandling, ok := nanHandlingNames[c.NaNHandling]
	if !ok {
		return nil, fmt.Errorf("%w: unknown nan-handling %q", ErrInvalidOption, c.NaNHandling)
	}

	divByZero, ok := divisionByZeroNames[c.DivisionByZero]
	if !ok {
		return nil, fmt.Errorf("%w: unknown division-by-zero %q", ErrInvalidOption, c.DivisionByZero)
	}

	opts := []Option{
		WithPreserveStructure(c.PreserveStructure),
		WithTruthiness(truthiness),
		WithNaNHandling(nanHandling),
		WithDivisionByZero(divByZero),
	}

	return NewEngine(opts...), nil
}

func truthinessKeys() []string     { return mapKeys(truthinessNames) }
func nanHandlingKeys() []string    { return mapKeys(nanHandlingNames) }
func divisionByZeroKeys() []string { return mapKeys(divisionByZeroNames) }

func mapKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

func completeFromSet(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
