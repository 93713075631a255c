package goconnection

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type (
	// Condition is the predicate Operator(Column, Value).
	//
	// For OperatorIN the value must be a slice. For OperatorLIKE the value must
	// be a string pattern with the SQL wildcards '%' and '_'.
	Condition struct {
		Column   string   `json:"column"`
		Operator Operator `json:"operator"`
		Value    any      `json:"value"`
	}

	// Conjunction is a list of conditions joined by AND.
	Conjunction []Condition

	// Filter represents the disjunctive normal form (DNF) of a logical expression.
	// Each conjunction is joined by OR, and each conjunction consists of a list
	// of conditions which are joined by AND.
	//
	// Thus:
	//
	//	DNF = X1 OR X2 ... OR Xn, where Xi = Ai1 AND Ai2 ... AND Aim.
	//	DNF = (A11 AND A12 AND A13) OR (A21 AND A22 AND A23), for n=2, m=3.
	//
	// An empty Filter matches every record.
	Filter []Conjunction
)

// Where returns a filter holding a single conjunction of conds.
func Where(conds ...Condition) Filter {
	return Filter{conds}
}

// Or returns a filter extended by a new conjunction of conds.
func (d Filter) Or(conds ...Condition) Filter {
	ret := make(Filter, 0, len(d)+1)
	ret = append(ret, d...)

	return append(ret, conds)
}

// And returns the conjunction of two filters, distributed back to DNF:
//
//	(A OR B) AND (C OR D) = (A AND C) OR (A AND D) OR (B AND C) OR (B AND D)
func (d Filter) And(other Filter) Filter {
	if len(d) == 0 {
		return other
	}
	if len(other) == 0 {
		return d
	}

	ret := make(Filter, 0, len(d)*len(other))
	for _, left := range d {
		for _, right := range other {
			conj := make(Conjunction, 0, len(left)+len(right))
			conj = append(conj, left...)
			conj = append(conj, right...)
			ret = append(ret, conj)
		}
	}

	return ret
}

func (c Condition) validate() error {
	if err := validateColumnName(c.Column); err != nil {
		return err
	}

	if !c.Operator.Valid() {
		return fmt.Errorf("invalid operator '%s'", c.Operator)
	}

	switch c.Operator {
	case OperatorIN:
		if c.Value == nil || reflect.TypeOf(c.Value).Kind() != reflect.Slice {
			return fmt.Errorf("operator IN requires a slice value, got %T", c.Value)
		}
	case OperatorLIKE:
		if _, ok := c.Value.(string); !ok {
			return fmt.Errorf("operator LIKE requires a string pattern, got %T", c.Value)
		}
	}

	return nil
}

func (d Filter) validate() error {
	for _, conj := range d {
		for _, cond := range conj {
			if err := cond.validate(); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
			}
		}
	}

	return nil
}

// toGORMExpression converts a condition of the form Operator(Column, Value)
// into an SQL condition "Column Operator Value" represented as a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?".
//
// Example:
//
//	Condition = { Column: "id", Operator: ">", Value: "123"}
//
// Result:
//
//	"id > 123"
func (c Condition) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a condition of the form Operator(Column, Value) to
// an SQL condition of the form "Column Operator ?" with a corresponding value.
// Returns the SQL string and the value for the placeholder.
//
// Example:
//
//	Condition = { Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c Condition) toSQLClause() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), c.Value
}

// toGORMExpression converts a conjunction (K1, K2, K3) into a gorm expression
// "K1 AND K2 AND K3" where each Ki is expanded via Condition.toGORMExpression.
func (d Conjunction) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(d))
	for _, cond := range d {
		andExpressions = append(andExpressions, cond.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a conjunction (K1, K2, K3) into an SQL condition
// "(K1 AND K2 AND K3)" with corresponding values.
//
// Example:
//
//	Conjunction = {
//		{Column: "id", Operator: ">", Value: 5},
//		{Column: "name", Operator: "<", Value: "abc"}
//	}
//
// Result:
//
//	("(id > ? AND name < ?)", [5, "abc"])
func (d Conjunction) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(d))
	andValues := make([]driver.Value, 0, len(d))

	for _, cond := range d {
		andClause, andValue := cond.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

// toGORMExpression converts a Filter into a clause.Expression. Conjunctions are
// joined with OR. Returns nil when the filter matches every row: it is empty or
// one of its conjunctions has no conditions.
func (d Filter) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(d))

	for _, conj := range d {
		andExpressions := conj.toGORMExpression()
		if andExpressions == nil {
			return nil
		}

		orExpressions = append(orExpressions, andExpressions)
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// ToSQL converts a Filter into an SQL condition with "?" placeholders and the
// list of values for them. A filter matching every row, empty or holding a
// conjunction without conditions, renders as "TRUE".
//
// Example:
//
//	Filter = {
//		{{Column: "id", Operator: "<", Value: 10}},
//		{{Column: "id", Operator: "=", Value: 10}, {Column: "name", Operator: "<", Value: "abc"}},
//	}
//
// Result:
//
//	("((id < ?) OR (id = ? AND name < ?))", [10, 10, "abc"])
//
// Usage:
//
//	where, args := filter.ToSQL()
//	query := fmt.Sprintf("SELECT * FROM table WHERE %s", where)
func (d Filter) ToSQL() (string, []driver.Value) {
	orClauses := make([]string, 0, len(d))
	values := make([]driver.Value, 0, len(d))

	for _, conj := range d {
		orClause, orValues := conj.toSQLClause()
		if orClause == "" {
			return "TRUE", nil
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
	}

	return "TRUE", nil
}

// evaluate reports whether a record, exposed through lookup, satisfies the filter.
// A NULL column value never satisfies a condition.
func (d Filter) evaluate(lookup func(column string) (any, error)) (bool, error) {
	if len(d) == 0 {
		return true, nil
	}

	for _, conj := range d {
		ok, err := conj.evaluate(lookup)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func (d Conjunction) evaluate(lookup func(column string) (any, error)) (bool, error) {
	for _, cond := range d {
		value, err := lookup(cond.Column)
		if err != nil {
			return false, err
		}

		ok, err := cond.evaluate(value)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func (c Condition) evaluate(value any) (bool, error) {
	if value == nil {
		return false, nil
	}

	switch c.Operator {
	case OperatorIN:
		items := reflect.ValueOf(c.Value)
		for i := 0; i < items.Len(); i++ {
			cmp, err := compareKeyValues(value, items.Index(i).Interface())
			if err != nil {
				return false, err
			}
			if cmp == 0 {
				return true, nil
			}
		}

		return false, nil
	case OperatorLIKE:
		s, ok := value.(string)
		if !ok {
			return false, fmt.Errorf("operator LIKE on non-string column '%s'", c.Column)
		}

		return likeMatch([]rune(s), []rune(c.Value.(string))), nil
	}

	cmp, err := compareKeyValues(value, c.Value)
	if err != nil {
		return false, fmt.Errorf("column '%s': %w", c.Column, err)
	}

	switch c.Operator {
	case OperatorEQ:
		return cmp == 0, nil
	case OperatorNE:
		return cmp != 0, nil
	case OperatorGT:
		return cmp > 0, nil
	case OperatorGTE:
		return cmp >= 0, nil
	case OperatorLT:
		return cmp < 0, nil
	case OperatorLTE:
		return cmp <= 0, nil
	default:
		return false, fmt.Errorf("invalid operator '%s'", c.Operator)
	}
}

// likeMatch matches s against an SQL LIKE pattern, where '%' matches any
// sequence and '_' matches a single rune.
func likeMatch(s, pattern []rune) bool {
	// match[j] reports whether s[:i] matches pattern[:j] for the current i.
	match := make([]bool, len(pattern)+1)
	match[0] = true
	for j := 1; j <= len(pattern); j++ {
		match[j] = match[j-1] && pattern[j-1] == '%'
	}

	for i := 1; i <= len(s); i++ {
		prevDiag := match[0]
		match[0] = false
		for j := 1; j <= len(pattern); j++ {
			prev := match[j]
			switch pattern[j-1] {
			case '%':
				match[j] = match[j] || match[j-1]
			case '_':
				match[j] = prevDiag
			default:
				match[j] = prevDiag && pattern[j-1] == s[i-1]
			}
			prevDiag = prev
		}
	}

	return lo.LastOrEmpty(match)
}
