package eval

import "github.com/rill-lang/rill/internal/value"

// NewInstance builds an Instance from a Class, populating each field from
// its default literal (or the declared type's zero value, via the same
// coercion table as a Null-initialized variable declaration, when no
// default was given). It is exported for internal/builtin's `new`.
func NewInstance(cls *value.Class) (*value.Instance, error) {
	fields := cls.Env.Child()
	for _, f := range cls.Fields {
		var (
			v   value.Value
			err error
		)
		if f.Default != nil {
			v, err = value.EvalLiteral(f.Default)
			if err != nil {
				return nil, err
			}
		} else {
			v, err = Coerce(f.Type, value.Null{}, 0)
			if err != nil {
				return nil, err
			}
		}
		fields.Define(f.Name, v)
	}
	return &value.Instance{Class: cls, Fields: fields}, nil
}
