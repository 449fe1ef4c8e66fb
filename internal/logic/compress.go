package logic

// Pass is a single reduction stage over a statement list.
// A pass must not modify its input slice.
type Pass interface {
	Name() string
	Apply(stmts []Expr) []Expr
}

// Dedup removes exact structural duplicates, keeping the first occurrence
// of each statement and the relative order of the rest.
type Dedup struct{}

func (Dedup) Name() string {
	return "dedup"
}

func (Dedup) Apply(stmts []Expr) []Expr {
	seen := make(map[Expr]struct{}, len(stmts))
	result := make([]Expr, 0, len(stmts))
	for _, s := range stmts {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}

// Compressor runs a fixed sequence of passes. It keeps no state between
// calls.
type Compressor struct {
	passes []Pass
}

// NewCompressor creates a compressor running the given passes in order.
// Without arguments it only removes exact duplicates.
func NewCompressor(passes ...Pass) *Compressor {
	if len(passes) == 0 {
		passes = []Pass{Dedup{}}
	}
	return &Compressor{passes: passes}
}

// Passes returns the names of the configured passes in execution order.
func (c *Compressor) Passes() []string {
	names := make([]string, len(c.passes))
	for i, p := range c.passes {
		names[i] = p.Name()
	}
	return names
}

// Compress applies every pass in order and returns a new slice.
func (c *Compressor) Compress(stmts []Expr) []Expr {
	result := append(make([]Expr, 0, len(stmts)), stmts...)
	for _, p := range c.passes {
		result = p.Apply(result)
	}
	return result
}

// Compress removes exact structural duplicates from stmts, keeping the
// first occurrence. No other reduction is performed.
func Compress(stmts []Expr) []Expr {
	return Dedup{}.Apply(stmts)
}
