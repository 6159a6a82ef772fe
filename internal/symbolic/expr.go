package symbolic

import (
	"math"
	"math/big"
	"sort"
	"strings"
)

// Expr is an immutable symbolic expression node.
type Expr interface {
	// Simplify returns a canonical-ish form using deterministic rewrite rules.
	Simplify() Expr
	// Sub substitutes value for every occurrence of the named symbol.
	Sub(name string, value Expr) Expr
	// Diff returns the derivative with respect to the named symbol.
	Diff(name string) Expr
	// Eval numerically evaluates the expression under the given bindings.
	// ok is false when the result is undefined, complex, or non-finite.
	Eval(env map[string]float64) (v float64, ok bool)
	String() string
	LaTeX() string
	Equal(other Expr) bool
}

// ============================================================
// Number: exact rational literal
// ============================================================

type Number struct{ val *big.Rat }

func Int(n int64) *Number { return &Number{val: new(big.Rat).SetInt64(n)} }

func Rat(p, q int64) *Number {
	if q == 0 {
		panic("symbolic: zero denominator")
	}
	return &Number{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func Float(f float64) *Number { return &Number{val: new(big.Rat).SetFloat64(f)} }

func (n *Number) Simplify() Expr        { return n }
func (n *Number) Sub(string, Expr) Expr { return n }
func (n *Number) Diff(string) Expr      { return Int(0) }

func (n *Number) Eval(map[string]float64) (float64, bool) {
	f, _ := n.val.Float64()
	return f, !math.IsInf(f, 0) && !math.IsNaN(f)
}

func (n *Number) IsZero() bool    { return n.val.Sign() == 0 }
func (n *Number) IsOne() bool     { return n.val.Cmp(ratOne) == 0 }
func (n *Number) IsNegOne() bool  { return n.val.Cmp(ratNegOne) == 0 }
func (n *Number) IsInteger() bool { return n.val.IsInt() }
func (n *Number) Sign() int       { return n.val.Sign() }
func (n *Number) Rat() *big.Rat   { return new(big.Rat).Set(n.val) }

func (n *Number) Float64() float64 {
	f, _ := n.val.Float64()
	return f
}

// Int64 returns the integer value; only meaningful when IsInteger.
func (n *Number) Int64() int64 { return n.val.Num().Int64() }

func (n *Number) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Number) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	v := new(big.Rat).Set(n.val)
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return sign + `\frac{` + v.Num().String() + `}{` + v.Denom().String() + `}`
}

func (n *Number) Equal(other Expr) bool {
	o, ok := other.(*Number)
	return ok && n.val.Cmp(o.val) == 0
}

var (
	ratOne    = new(big.Rat).SetInt64(1)
	ratNegOne = new(big.Rat).SetInt64(-1)
)

func ratAdd(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func ratMul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }

// ratPow raises a rational to an integer power; e must satisfy |e| <= 64.
func ratPow(a *big.Rat, e int64) *big.Rat {
	r := new(big.Rat).SetInt64(1)
	neg := e < 0
	if neg {
		e = -e
	}
	for i := int64(0); i < e; i++ {
		r.Mul(r, a)
	}
	if neg {
		r.Inv(r)
	}
	return r
}

// ============================================================
// Constant: named real constant (pi, e)
// ============================================================

type Constant struct{ name string }

var (
	Pi = &Constant{name: "pi"}
	E  = &Constant{name: "e"}
)

// constantValue resolves a reserved constant name, if any.
func constantValue(name string) (float64, bool) {
	switch name {
	case "pi":
		return math.Pi, true
	case "e":
		return math.E, true
	}
	return 0, false
}

func (c *Constant) Simplify() Expr        { return c }
func (c *Constant) Sub(string, Expr) Expr { return c }
func (c *Constant) Diff(string) Expr      { return Int(0) }

func (c *Constant) Eval(map[string]float64) (float64, bool) {
	v, ok := constantValue(c.name)
	return v, ok
}

func (c *Constant) String() string { return c.name }
func (c *Constant) Name() string   { return c.name }

func (c *Constant) LaTeX() string {
	if c.name == "pi" {
		return `\pi`
	}
	return c.name
}

func (c *Constant) Equal(other Expr) bool {
	o, ok := other.(*Constant)
	return ok && c.name == o.name
}

// ============================================================
// Symbol: free variable or parameter
// ============================================================

type Symbol struct{ name string }

func Var(name string) *Symbol { return &Symbol{name: name} }

func (s *Symbol) Simplify() Expr { return s }
func (s *Symbol) Name() string   { return s.name }

func (s *Symbol) Sub(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Symbol) Diff(name string) Expr {
	if s.name == name {
		return Int(1)
	}
	return Int(0)
}

func (s *Symbol) Eval(env map[string]float64) (float64, bool) {
	v, ok := env[s.name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (s *Symbol) String() string { return s.name }
func (s *Symbol) LaTeX() string  { return s.name }

func (s *Symbol) Equal(other Expr) bool {
	o, ok := other.(*Symbol)
	return ok && s.name == o.name
}

// ============================================================
// Sum: n-ary sum with like-term collection
// ============================================================

type Sum struct{ terms []Expr }

// Add builds a simplified sum of the given terms.
func Add(terms ...Expr) Expr { return (&Sum{terms: terms}).Simplify() }

// Subtract builds a - b.
func Subtract(a, b Expr) Expr { return Add(a, Neg(b)) }

func (s *Sum) Terms() []Expr { return s.terms }

// splitCoeff splits a term into its numeric coefficient and the remaining
// symbolic part. The symbolic part is nil for pure numbers.
func splitCoeff(e Expr) (*big.Rat, Expr) {
	switch v := e.(type) {
	case *Number:
		return v.Rat(), nil
	case *Product:
		coeff := new(big.Rat).SetInt64(1)
		rest := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			if n, ok := f.(*Number); ok {
				coeff.Mul(coeff, n.val)
			} else {
				rest = append(rest, f)
			}
		}
		if len(rest) == 0 {
			return coeff, nil
		}
		if len(rest) == 1 {
			return coeff, rest[0]
		}
		return coeff, &Product{factors: rest}
	default:
		return new(big.Rat).SetInt64(1), e
	}
}

func (s *Sum) Simplify() Expr {
	flat := make([]Expr, 0, len(s.terms))
	for _, t := range s.terms {
		st := t.Simplify()
		switch v := st.(type) {
		case *Sum:
			flat = append(flat, v.terms...)
		case *Product:
			// c*(a + b) with a numeric c, the shape Neg and Subtract
			// produce, distributes so the inner terms can cancel against
			// like terms at this level.
			if c, inner, ok := numericSumFactor(v); ok {
				for _, it := range inner.terms {
					flat = append(flat, Mul(&Number{val: c}, it))
				}
				continue
			}
			flat = append(flat, st)
		default:
			flat = append(flat, st)
		}
	}

	// Collect like terms keyed by the string form of the symbolic part.
	constant := new(big.Rat)
	coeffs := map[string]*big.Rat{}
	parts := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		coeff, rest := splitCoeff(t)
		if rest == nil {
			constant.Add(constant, coeff)
			continue
		}
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			coeffs[key] = new(big.Rat)
			parts[key] = rest
			order = append(order, key)
		}
		coeffs[key].Add(coeffs[key], coeff)
	}
	sort.Strings(order)

	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		c := coeffs[key]
		switch {
		case c.Sign() == 0:
		case c.Cmp(ratOne) == 0:
			result = append(result, parts[key])
		default:
			result = append(result, &Product{factors: []Expr{&Number{val: c}, parts[key]}})
		}
	}
	if constant.Sign() != 0 {
		result = append(result, &Number{val: constant})
	}

	if len(result) == 0 {
		return Int(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Sum{terms: result}
}

// numericSumFactor matches a two-factor product of a numeric coefficient
// and a sum.
func numericSumFactor(p *Product) (*big.Rat, *Sum, bool) {
	if len(p.factors) != 2 {
		return nil, nil, false
	}
	n, numOK := p.factors[0].(*Number)
	inner, sumOK := p.factors[1].(*Sum)
	if !numOK || !sumOK {
		return nil, nil, false
	}
	return n.Rat(), inner, true
}

func (s *Sum) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.Sub(name, value)
	}
	return Add(out...)
}

func (s *Sum) Diff(name string) Expr {
	out := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.Diff(name)
	}
	return Add(out...)
}

func (s *Sum) Eval(env map[string]float64) (float64, bool) {
	acc := 0.0
	for _, t := range s.terms {
		v, ok := t.Eval(env)
		if !ok {
			return 0, false
		}
		acc += v
	}
	if math.IsNaN(acc) || math.IsInf(acc, 0) {
		return 0, false
	}
	return acc, true
}

// negLeading reports whether a rendered term should fold its sign into a
// preceding minus.
func negLeading(e Expr) (Expr, bool) {
	switch v := e.(type) {
	case *Number:
		if v.Sign() < 0 {
			return &Number{val: new(big.Rat).Neg(v.val)}, true
		}
	case *Product:
		if n, ok := v.factors[0].(*Number); ok && n.Sign() < 0 {
			pos := &Number{val: new(big.Rat).Neg(n.val)}
			rest := v.factors[1:]
			if pos.IsOne() {
				if len(rest) == 1 {
					return rest[0], true
				}
				return &Product{factors: rest}, true
			}
			return &Product{factors: append([]Expr{pos}, rest...)}, true
		}
	}
	return e, false
}

func (s *Sum) String() string { return s.render(Expr.String) }
func (s *Sum) LaTeX() string  { return s.render(Expr.LaTeX) }

func (s *Sum) render(show func(Expr) string) string {
	var b strings.Builder
	for i, t := range s.terms {
		pos, neg := negLeading(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(show(pos))
	}
	return b.String()
}

func (s *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	if !ok || len(s.terms) != len(o.terms) {
		return false
	}
	for i := range s.terms {
		if !s.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Product: n-ary product with same-base power merging
// ============================================================

type Product struct{ factors []Expr }

// Mul builds a simplified product of the given factors.
func Mul(factors ...Expr) Expr { return (&Product{factors: factors}).Simplify() }

// Neg builds -e.
func Neg(e Expr) Expr { return Mul(Int(-1), e) }

// Div builds a/b as a * b^-1.
func Div(a, b Expr) Expr { return Mul(a, Pow(b, Int(-1))) }

func (p *Product) Factors() []Expr { return p.factors }

func (p *Product) Simplify() Expr {
	flat := make([]Expr, 0, len(p.factors))
	for _, f := range p.factors {
		sf := f.Simplify()
		if inner, ok := sf.(*Product); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, sf)
		}
	}

	coeff := new(big.Rat).SetInt64(1)
	// Merge same-base factors by summing exponents.
	bases := map[string]Expr{}
	exps := map[string]Expr{}
	order := []string{}
	for _, f := range flat {
		if n, ok := f.(*Number); ok {
			coeff.Mul(coeff, n.val)
			continue
		}
		base, exp := f, Expr(Int(1))
		if pw, ok := f.(*Power); ok {
			base, exp = pw.base, pw.exp
		}
		key := base.String()
		if _, seen := bases[key]; !seen {
			bases[key] = base
			exps[key] = exp
			order = append(order, key)
			continue
		}
		exps[key] = Add(exps[key], exp)
	}

	if coeff.Sign() == 0 {
		return Int(0)
	}

	sort.Strings(order)
	rest := make([]Expr, 0, len(order))
	for _, key := range order {
		f := Pow(bases[key], exps[key])
		if n, ok := f.(*Number); ok {
			coeff.Mul(coeff, n.val)
			continue
		}
		rest = append(rest, f)
	}

	if len(rest) == 0 {
		return &Number{val: coeff}
	}
	if coeff.Cmp(ratOne) == 0 {
		if len(rest) == 1 {
			return rest[0]
		}
		return &Product{factors: rest}
	}
	return &Product{factors: append([]Expr{&Number{val: coeff}}, rest...)}
}

func (p *Product) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(p.factors))
	for i, f := range p.factors {
		out[i] = f.Sub(name, value)
	}
	return Mul(out...)
}

// Diff applies the generalized product rule.
func (p *Product) Diff(name string) Expr {
	terms := make([]Expr, len(p.factors))
	for i := range p.factors {
		parts := make([]Expr, 0, len(p.factors))
		parts = append(parts, p.factors[i].Diff(name))
		for j, f := range p.factors {
			if j != i {
				parts = append(parts, f)
			}
		}
		terms[i] = Mul(parts...)
	}
	return Add(terms...)
}

func (p *Product) Eval(env map[string]float64) (float64, bool) {
	acc := 1.0
	for _, f := range p.factors {
		v, ok := f.Eval(env)
		if !ok {
			return 0, false
		}
		acc *= v
	}
	if math.IsNaN(acc) || math.IsInf(acc, 0) {
		return 0, false
	}
	return acc, true
}

func (p *Product) String() string { return p.render(Expr.String, "*") }
func (p *Product) LaTeX() string  { return p.render(Expr.LaTeX, `\cdot `) }

func (p *Product) render(show func(Expr) string, sep string) string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		if _, isSum := f.(*Sum); isSum {
			parts[i] = "(" + show(f) + ")"
		} else {
			parts[i] = show(f)
		}
	}
	return strings.Join(parts, sep)
}

func (p *Product) Equal(other Expr) bool {
	o, ok := other.(*Product)
	if !ok || len(p.factors) != len(o.factors) {
		return false
	}
	for i := range p.factors {
		if !p.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Power: base^exponent
// ============================================================

type Power struct{ base, exp Expr }

// Pow builds a simplified power.
func Pow(base, exp Expr) Expr { return (&Power{base: base, exp: exp}).Simplify() }

// Sqrt builds the principal square root as base^(1/2).
func Sqrt(e Expr) Expr { return Pow(e, Rat(1, 2)) }

func (p *Power) Base() Expr     { return p.base }
func (p *Power) Exponent() Expr { return p.exp }

func (p *Power) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if bn, isNum := base.(*Number); isNum && bn.IsZero() {
		// 0^0 and 0^negative stay unevaluated.
		if en, ok := exp.(*Number); ok && en.Sign() > 0 {
			return Int(0)
		}
		return &Power{base: base, exp: exp}
	}
	if en, ok := exp.(*Number); ok {
		if en.IsZero() {
			return Int(1)
		}
		if en.IsOne() {
			return base
		}
	}
	if bn, ok := base.(*Number); ok && bn.IsOne() {
		return Int(1)
	}

	// Exact numeric^integer for small exponents.
	if bn, ok := base.(*Number); ok {
		if en, ok2 := exp.(*Number); ok2 && en.IsInteger() {
			e := en.Int64()
			if e >= -20 && e <= 20 {
				return &Number{val: ratPow(bn.val, e)}
			}
		}
	}

	if en, ok := exp.(*Number); ok && en.IsInteger() {
		// (u^m)^n -> u^(m*n) is safe for integer outer exponents.
		if inner, isPow := base.(*Power); isPow {
			return Pow(inner.base, Mul(inner.exp, exp))
		}
		// (u*v)^n -> u^n * v^n, likewise.
		if prod, isMul := base.(*Product); isMul {
			out := make([]Expr, len(prod.factors))
			for i, f := range prod.factors {
				out[i] = Pow(f, exp)
			}
			return Mul(out...)
		}
	}

	return &Power{base: base, exp: exp}
}

func (p *Power) Sub(name string, value Expr) Expr {
	return Pow(p.base.Sub(name, value), p.exp.Sub(name, value))
}

func (p *Power) Diff(name string) Expr {
	du := p.base.Diff(name)
	dv := p.exp.Diff(name)
	if _, ok := p.exp.(*Number); ok {
		// d(u^c) = c * u^(c-1) * u'
		return Mul(p.exp, Pow(p.base, Add(p.exp, Int(-1))), du)
	}
	if isConstExpr(p.base) {
		// d(c^v) = c^v * ln(c) * v'
		return Mul(Pow(p.base, p.exp), Ln(p.base), dv)
	}
	// General case: u^v * (v'*ln(u) + v*u'/u)
	return Mul(Pow(p.base, p.exp), Add(Mul(dv, Ln(p.base)), Mul(p.exp, du, Pow(p.base, Int(-1)))))
}

// isConstExpr reports whether e contains no symbols.
func isConstExpr(e Expr) bool { return len(FreeSymbols(e)) == 0 }

func (p *Power) Eval(env map[string]float64) (float64, bool) {
	b, ok1 := p.base.Eval(env)
	e, ok2 := p.exp.Eval(env)
	if !ok1 || !ok2 {
		return 0, false
	}
	v := math.Pow(b, e)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (p *Power) String() string {
	baseStr := p.base.String()
	switch p.base.(type) {
	case *Sum, *Product, *Power:
		baseStr = "(" + baseStr + ")"
	case *Number:
		if strings.ContainsAny(baseStr, "-/") {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	switch p.exp.(type) {
	case *Sum, *Product, *Power:
		expStr = "(" + expStr + ")"
	case *Number:
		if strings.ContainsAny(expStr, "-/") {
			expStr = "(" + expStr + ")"
		}
	}
	return baseStr + "^" + expStr
}

func (p *Power) LaTeX() string {
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Sum, *Product, *Power:
		baseStr = `\left(` + baseStr + `\right)`
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Power) Equal(other Expr) bool {
	o, ok := other.(*Power)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// ============================================================
// Free symbols
// ============================================================

// FreeSymbols returns the set of symbol names occurring in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Symbol:
		out[v.name] = struct{}{}
	case *Sum:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Product:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Power:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Call:
		collectSymbols(v.arg, out)
	}
}

// IsZero reports whether e simplifies to the literal zero.
func IsZero(e Expr) bool {
	n, ok := e.Simplify().(*Number)
	return ok && n.IsZero()
}
