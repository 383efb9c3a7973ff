package querybuilder

type Condition interface {
	writeTo(w *sqlWriter)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) writeTo(w *sqlWriter) {
	w.raw(c.column, " = ")
	w.bind(c.value)
}

type isNullCondition struct {
	column string
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func (c isNullCondition) writeTo(w *sqlWriter) {
	w.raw(c.column, " IS NULL")
}

type exprCondition struct {
	expr string
	args []any
}

func (c exprCondition) writeTo(w *sqlWriter) {
	w.expr(c.expr, c.args)
}
