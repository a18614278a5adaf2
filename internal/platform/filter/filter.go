// Package filter translates AIP-160 filter expressions into SQL WHERE
// fragments over a declared set of columns.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// FieldType is the declared type of one filterable field.
type FieldType int

const (
	// String fields compare against quoted literals.
	String FieldType = iota
	// Timestamp fields compare against RFC3339 literals and bind as unix millis.
	Timestamp
)

// Field maps one filter identifier to a SQL column.
type Field struct {
	Name   string
	Column string
	Type   FieldType
}

// SQLCondition represents a SQL WHERE clause fragment with parameters.
type SQLCondition struct {
	// Clause is the SQL WHERE clause (e.g., "kind = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// Empty reports whether the condition has no clause.
func (c SQLCondition) Empty() bool {
	return strings.TrimSpace(c.Clause) == ""
}

// Schema is a reusable set of filterable fields.
type Schema struct {
	fields       map[string]Field
	declarations *filtering.Declarations
}

// NewSchema declares the filterable fields.
func NewSchema(fields ...Field) (*Schema, error) {
	options := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	byName := make(map[string]Field, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" || strings.TrimSpace(field.Column) == "" {
			return nil, fmt.Errorf("filter field name and column are required")
		}
		if _, ok := byName[name]; ok {
			return nil, fmt.Errorf("duplicate filter field %q", name)
		}
		byName[name] = field
		switch field.Type {
		case Timestamp:
			options = append(options, filtering.DeclareIdent(name, filtering.TypeTimestamp))
		default:
			options = append(options, filtering.DeclareIdent(name, filtering.TypeString))
		}
	}
	declarations, err := filtering.NewDeclarations(options...)
	if err != nil {
		return nil, fmt.Errorf("create declarations: %w", err)
	}
	return &Schema{fields: byName, declarations: declarations}, nil
}

type filterRequest string

func (r filterRequest) GetFilter() string { return string(r) }

// Parse parses an AIP-160 filter expression and returns a SQL condition.
// An empty filter yields an empty condition.
func (s *Schema) Parse(filterStr string) (SQLCondition, error) {
	if s == nil {
		return SQLCondition{}, fmt.Errorf("filter schema is not configured")
	}
	filterStr = strings.TrimSpace(filterStr)
	if filterStr == "" {
		return SQLCondition{}, nil
	}

	parsed, err := filtering.ParseFilter(filterRequest(filterStr), s.declarations)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}
	return s.translateExpr(parsed.CheckedExpr.GetExpr())
}

func (s *Schema) translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	return s.translateCall(call.CallExpr)
}

var comparisonOperators = map[string]string{
	"_==_": "=", "=": "=",
	"_!=_": "!=", "!=": "!=",
	"_<_": "<", "<": "<",
	"_<=_": "<=", "<=": "<=",
	"_>_": ">", ">": ">",
	"_>=_": ">=", ">=": ">=",
}

func (s *Schema) translateCall(call *expr.Expr_Call) (SQLCondition, error) {
	switch call.GetFunction() {
	case "_&&_", "AND":
		return s.translateJunction(call.GetArgs(), "AND")
	case "_||_", "OR":
		return s.translateJunction(call.GetArgs(), "OR")
	}
	if op, ok := comparisonOperators[call.GetFunction()]; ok {
		return s.translateComparison(call.GetArgs(), op)
	}
	return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.GetFunction())
}

func (s *Schema) translateJunction(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) < 2 {
		return SQLCondition{}, fmt.Errorf("%s requires at least 2 arguments", op)
	}
	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		part, err := s.translateExpr(arg)
		if err != nil {
			return SQLCondition{}, err
		}
		clauses = append(clauses, part.Clause)
		params = append(params, part.Params...)
	}
	return SQLCondition{
		Clause: "(" + strings.Join(clauses, " "+op+" ") + ")",
		Params: params,
	}, nil
}

func (s *Schema) translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	field, ok := s.fields[ident.IdentExpr.GetName()]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}

	var value any
	var err error
	switch field.Type {
	case Timestamp:
		value, err = timestampMillis(args[1])
	default:
		value, err = stringValue(args[1])
	}
	if err != nil {
		return SQLCondition{}, fmt.Errorf("field %s: %w", field.Name, err)
	}
	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", field.Column, op),
		Params: []any{value},
	}, nil
}

func stringValue(e *expr.Expr) (string, error) {
	constant, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return "", fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	value, ok := constant.ConstExpr.GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return "", fmt.Errorf("expected string constant")
	}
	return value.StringValue, nil
}

func timestampMillis(e *expr.Expr) (int64, error) {
	if call, ok := e.GetExprKind().(*expr.Expr_CallExpr); ok {
		// timestamp("...") form.
		if call.CallExpr.GetFunction() != "timestamp" || len(call.CallExpr.GetArgs()) != 1 {
			return 0, fmt.Errorf("unsupported function in value position: %s", call.CallExpr.GetFunction())
		}
		e = call.CallExpr.GetArgs()[0]
	}
	raw, err := stringValue(e)
	if err != nil {
		return 0, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", raw)
	}
	return parsed.UTC().UnixMilli(), nil
}
