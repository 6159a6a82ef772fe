package symbolic

import "math/big"

// IsPolynomial reports whether e is a polynomial in the named symbol:
// sums, products, and non-negative integer powers, with no occurrence of
// the symbol inside function calls or exponents.
func IsPolynomial(e Expr, name string) bool {
	switch v := e.(type) {
	case *Number, *Constant:
		return true
	case *Symbol:
		return true
	case *Sum:
		for _, t := range v.terms {
			if !IsPolynomial(t, name) {
				return false
			}
		}
		return true
	case *Product:
		for _, f := range v.factors {
			if !IsPolynomial(f, name) {
				return false
			}
		}
		return true
	case *Power:
		if dependsOn(v.exp, name) {
			return false
		}
		if !dependsOn(v.base, name) {
			return true
		}
		n, ok := v.exp.(*Number)
		if !ok || !n.IsInteger() || n.Sign() < 0 {
			return false
		}
		return IsPolynomial(v.base, name)
	case *Call:
		return !dependsOn(v.arg, name)
	}
	return false
}

func dependsOn(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

// Degree returns the degree of e viewed as a polynomial in name.
// ok is false when e is not polynomial in name.
func Degree(e Expr, name string) (int, bool) {
	if !IsPolynomial(e, name) {
		return 0, false
	}
	return degreeOf(e.Simplify(), name), true
}

func degreeOf(e Expr, name string) int {
	switch v := e.(type) {
	case *Symbol:
		if v.name == name {
			return 1
		}
	case *Power:
		if sym, ok := v.base.(*Symbol); ok && sym.name == name {
			if n, ok2 := v.exp.(*Number); ok2 && n.IsInteger() {
				return int(n.Int64())
			}
		}
		if dependsOn(v.base, name) {
			if n, ok := v.exp.(*Number); ok && n.IsInteger() {
				return degreeOf(v.base, name) * int(n.Int64())
			}
		}
	case *Sum:
		max := 0
		for _, t := range v.terms {
			if d := degreeOf(t, name); d > max {
				max = d
			}
		}
		return max
	case *Product:
		total := 0
		for _, f := range v.factors {
			total += degreeOf(f, name)
		}
		return total
	}
	return 0
}

// Coeffs returns the dense coefficient slice of e as a polynomial in name,
// lowest degree first, with every coefficient evaluated to a float.
// ok is false when e is not a polynomial in name or a coefficient contains
// other free symbols.
func Coeffs(e Expr, name string) ([]float64, bool) {
	expanded := Expand(e).Simplify()
	deg, ok := Degree(expanded, name)
	if !ok {
		return nil, false
	}
	byDeg := map[int]Expr{}
	if !gatherCoeffs(expanded, name, byDeg) {
		return nil, false
	}
	out := make([]float64, deg+1)
	for d, c := range byDeg {
		v, ok := c.Eval(nil)
		if !ok {
			return nil, false
		}
		if d > deg {
			return nil, false
		}
		out[d] = v
	}
	return out, true
}

func gatherCoeffs(e Expr, name string, out map[int]Expr) bool {
	switch v := e.(type) {
	case *Number, *Constant:
		addCoeff(out, 0, e)
	case *Symbol:
		if v.name == name {
			addCoeff(out, 1, Int(1))
		} else {
			addCoeff(out, 0, e)
		}
	case *Power:
		if sym, ok := v.base.(*Symbol); ok && sym.name == name {
			if n, ok2 := v.exp.(*Number); ok2 && n.IsInteger() && n.Sign() >= 0 {
				addCoeff(out, int(n.Int64()), Int(1))
				return true
			}
			return false
		}
		if dependsOn(v, name) {
			return false
		}
		addCoeff(out, 0, e)
	case *Product:
		deg := 0
		coeff := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			if !dependsOn(f, name) {
				coeff = append(coeff, f)
				continue
			}
			switch fv := f.(type) {
			case *Symbol:
				deg++
			case *Power:
				sym, ok := fv.base.(*Symbol)
				n, ok2 := fv.exp.(*Number)
				if !ok || sym.name != name || !ok2 || !n.IsInteger() || n.Sign() < 0 {
					return false
				}
				deg += int(n.Int64())
			default:
				return false
			}
		}
		addCoeff(out, deg, Mul(append(coeff, Int(1))...))
	case *Sum:
		for _, t := range v.terms {
			if !gatherCoeffs(t, name, out) {
				return false
			}
		}
	case *Call:
		if dependsOn(v, name) {
			return false
		}
		addCoeff(out, 0, e)
	default:
		return false
	}
	return true
}

func addCoeff(out map[int]Expr, deg int, c Expr) {
	if prev, ok := out[deg]; ok {
		out[deg] = Add(prev, c)
	} else {
		out[deg] = c.Simplify()
	}
}

// Expand distributes products over sums and expands small integer powers
// of sums, so that polynomial structure becomes explicit.
func Expand(e Expr) Expr {
	switch v := e.(type) {
	case *Sum:
		out := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			out[i] = Expand(t)
		}
		return Add(out...)
	case *Product:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = Expand(f)
		}
		result := []Expr{Int(1)}
		for _, f := range factors {
			terms := sumTerms(f)
			next := make([]Expr, 0, len(result)*len(terms))
			for _, r := range result {
				for _, t := range terms {
					next = append(next, Mul(r, t))
				}
			}
			result = next
		}
		return Add(result...)
	case *Power:
		base := Expand(v.base)
		if n, ok := v.exp.(*Number); ok && n.IsInteger() {
			k := n.Int64()
			if k >= 2 && k <= 16 {
				if _, isSum := base.(*Sum); isSum {
					// Convolve term lists directly. Multiplying whole sums
					// would let the product simplifier merge the equal bases
					// back into the power being expanded.
					result := []Expr{Int(1)}
					for i := int64(0); i < k; i++ {
						terms := sumTerms(base)
						next := make([]Expr, 0, len(result)*len(terms))
						for _, r := range result {
							for _, t := range terms {
								next = append(next, Mul(r, t))
							}
						}
						result = sumTerms(Add(next...))
					}
					return Add(result...)
				}
			}
		}
		return Pow(base, v.exp)
	default:
		return e
	}
}

func sumTerms(e Expr) []Expr {
	if s, ok := e.(*Sum); ok {
		return s.terms
	}
	return []Expr{e}
}

// Ratio rewrites e as a single fraction num/den, combining sums over a
// common denominator. den is the literal 1 when e has no denominator.
func Ratio(e Expr) (num, den Expr) {
	n, d := ratioOf(e.Simplify())
	return n.Simplify(), d.Simplify()
}

func ratioOf(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Power:
		if n, ok := v.exp.(*Number); ok && n.Sign() < 0 {
			inv := &Number{val: new(big.Rat).Neg(n.Rat())}
			return Int(1), Pow(v.base, inv)
		}
		if n, ok := v.exp.(*Number); ok && n.IsInteger() && n.Sign() > 0 {
			bn, bd := ratioOf(v.base)
			if _, isOne := isLiteralOne(bd); !isOne {
				return Pow(bn, v.exp), Pow(bd, v.exp)
			}
		}
		return e, Int(1)
	case *Product:
		num := []Expr{}
		den := []Expr{}
		for _, f := range v.factors {
			fn, fd := ratioOf(f)
			num = append(num, fn)
			den = append(den, fd)
		}
		return Mul(num...), Mul(den...)
	case *Sum:
		// Combine over the product of the distinct denominators.
		nums := make([]Expr, len(v.terms))
		dens := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			nums[i], dens[i] = ratioOf(t)
		}
		common := []Expr{}
		seen := map[string]bool{}
		for _, d := range dens {
			ds := d.Simplify()
			if _, one := isLiteralOne(ds); one {
				continue
			}
			key := ds.String()
			if !seen[key] {
				seen[key] = true
				common = append(common, ds)
			}
		}
		if len(common) == 0 {
			return e, Int(1)
		}
		commonDen := Mul(common...)
		terms := make([]Expr, len(v.terms))
		for i := range v.terms {
			// Multiply by every common factor except this term's own.
			factors := []Expr{nums[i]}
			own := dens[i].Simplify().String()
			matched := false
			for _, cf := range common {
				if !matched && cf.String() == own {
					matched = true
					continue
				}
				factors = append(factors, cf)
			}
			terms[i] = Mul(factors...)
		}
		return Add(terms...), commonDen
	default:
		return e, Int(1)
	}
}

func isLiteralOne(e Expr) (Expr, bool) {
	n, ok := e.(*Number)
	return e, ok && n != nil && n.IsOne()
}
