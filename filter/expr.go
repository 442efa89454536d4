package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/s0up4200/rezstats/paladins"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables compiled-filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Compile with a static environment for validation. Match fields
	// stay undefined until evaluation.
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a history match
func (f *exprFilter) Evaluate(match paladins.HistoryMatch) bool {
	ok, err := f.Matches(match)
	return err == nil && ok
}

// Matches evaluates the filter and surfaces runtime errors
func (f *exprFilter) Matches(match paladins.HistoryMatch) (bool, error) {
	env := matchEnvironment(match)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MatchID:    match.MatchID,
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now
}

// matchEnvironment creates the runtime environment for filter evaluation
func matchEnvironment(match paladins.HistoryMatch) map[string]any {
	env := make(map[string]any, 48)

	// Add helper functions
	addHelperFunctions(env)

	// Add match data
	env["Match"] = match

	// Add match-specific helper functions using closures
	env["onMap"] = createOnMapFunc(match.MapName)
	env["playedChampion"] = createPlayedChampionFunc(match.Champion)
	env["inQueue"] = createInQueueFunc(match.Queue())
	env["ranked"] = createRankedFunc(match.Queue())
	env["training"] = createTrainingFunc(match.Queue())

	// Direct match properties for convenience
	env["MatchID"] = match.MatchID
	env["Queue"] = int(match.Queue())
	env["QueueName"] = match.Queue().String()
	env["Map"] = paladins.CleanMapName(match.MapName)
	env["Region"] = match.Region
	env["Champion"] = match.Champion
	env["ChampionID"] = match.ChampionID
	env["Skin"] = match.Skin
	env["Kills"] = match.Kills
	env["Deaths"] = match.Deaths
	env["Assists"] = match.Assists
	env["KillingSpree"] = match.KillingSpree
	env["MultikillMax"] = match.MultikillMax
	env["Damage"] = match.Damage
	env["DamageTaken"] = match.DamageTaken
	env["DamageMitigated"] = match.DamageMitigated
	env["Healing"] = match.Healing
	env["SelfHealing"] = match.SelfHealing
	env["Gold"] = match.Gold
	env["ObjectiveTime"] = match.ObjectiveTime
	env["Team1Score"] = match.Team1Score
	env["Team2Score"] = match.Team2Score
	env["DurationSeconds"] = match.DurationSeconds
	env["Time"] = match.Time.Time
	env["Won"] = match.Won()

	return env
}

// Helper factory functions using closures

func createOnMapFunc(mapName string) func(string) bool {
	cleaned := strings.ToLower(paladins.CleanMapName(mapName))
	return func(name string) bool {
		return cleaned == strings.ToLower(strings.TrimSpace(name))
	}
}

func createPlayedChampionFunc(champion string) func(string) bool {
	lowerName := strings.ToLower(champion)
	return func(name string) bool {
		return strings.Contains(lowerName, strings.ToLower(strings.TrimSpace(name)))
	}
}

func createInQueueFunc(queue paladins.Queue) func(string) bool {
	return func(name string) bool {
		parsed, ok := paladins.ParseQueue(name)
		return ok && parsed == queue
	}
}

func createRankedFunc(queue paladins.Queue) func() bool {
	return func() bool {
		return queue.IsRanked()
	}
}

func createTrainingFunc(queue paladins.Queue) func() bool {
	return func() bool {
		return queue.IsTraining()
	}
}
