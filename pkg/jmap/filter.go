package jmap

import (
	"fmt"

	"github.com/beeper/jmap-go/pkg/jmap/wire"
)

// Filter is a query filter: either a FilterOperator combining
// sub-filters, or a resource-specific condition record.
type Filter interface {
	// FilterMap renders the filter as wire-ready arguments.
	FilterMap() (map[string]any, error)
}

// Filter operator names.
const (
	OperatorAND = "AND"
	OperatorOR  = "OR"
	OperatorNOT = "NOT"
)

// FilterOperator combines sub-filters with AND, OR, or NOT.
type FilterOperator struct {
	Operator   string
	Conditions []Filter
}

// And matches when every condition matches.
func And(conditions ...Filter) FilterOperator {
	return FilterOperator{Operator: OperatorAND, Conditions: conditions}
}

// Or matches when at least one condition matches.
func Or(conditions ...Filter) FilterOperator {
	return FilterOperator{Operator: OperatorOR, Conditions: conditions}
}

// Not matches when no condition matches.
func Not(conditions ...Filter) FilterOperator {
	return FilterOperator{Operator: OperatorNOT, Conditions: conditions}
}

func (f FilterOperator) FilterMap() (map[string]any, error) {
	switch f.Operator {
	case OperatorAND, OperatorOR, OperatorNOT:
	default:
		return nil, fmt.Errorf("jmap: unknown filter operator %q", f.Operator)
	}
	conditions := make([]any, len(f.Conditions))
	for i, c := range f.Conditions {
		m, err := c.FilterMap()
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		conditions[i] = m
	}
	return map[string]any{
		"operator":   f.Operator,
		"conditions": conditions,
	}, nil
}

// Condition adapts a sparse condition record into a Filter. Absent fields
// are omitted from the encoded form, so an empty condition is {}.
func Condition(rec wire.Record) Filter {
	return conditionFilter{rec: rec}
}

type conditionFilter struct {
	rec wire.Record
}

func (c conditionFilter) FilterMap() (map[string]any, error) {
	return wire.Encode(c.rec)
}
