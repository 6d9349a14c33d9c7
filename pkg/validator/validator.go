package validator

import (
	"maps"
)

// Option configures a Validator.
type Option func(*Validator)

// WithFields sets the accepted fields and their human labels.
func WithFields(fields map[string]string) Option {
	return func(v *Validator) {
		v.SetFields(fields)
	}
}

// WithMode sets the initial validation mode.
func WithMode(mode Mode) Option {
	return func(v *Validator) {
		v.mode = mode
	}
}

// Validator evaluates rule tables against submitted data and collects
// per-field messages. It is not safe for concurrent use.
type Validator struct {
	fields map[string]string
	data   map[string]any
	errors Errors
	mode   Mode

	formatOf       []FormatOf
	inclusionOf    []InclusionOf
	lengthOf       []LengthOf
	numericalityOf []NumericalityOf
	presenceOf     []PresenceOf
}

// New creates an empty Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		fields: make(map[string]string),
		data:   make(map[string]any),
		errors: make(Errors),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetFields replaces the accepted fields. Keys are field names and values
// their human labels.
func (v *Validator) SetFields(fields map[string]string) {
	v.fields = maps.Clone(fields)
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
}

// Fields returns a copy of the accepted fields.
func (v *Validator) Fields() map[string]string {
	return maps.Clone(v.fields)
}

// Label returns the human label of field, or the field name itself.
func (v *Validator) Label(field string) string {
	if label, ok := v.fields[field]; ok && label != "" {
		return label
	}
	return field
}

// SetCreateMode switches to create mode.
func (v *Validator) SetCreateMode() { v.mode = ModeCreate }

// SetUpdateMode switches to update mode.
func (v *Validator) SetUpdateMode() { v.mode = ModeUpdate }

// Mode returns the current mode, or "" when none was set.
func (v *Validator) Mode() Mode { return v.mode }

// SetData stores the values to validate, dropping unknown fields.
func (v *Validator) SetData(data map[string]any) {
	v.data = make(map[string]any, len(v.fields))
	for field := range v.fields {
		if val, ok := data[field]; ok {
			v.data[field] = val
		}
	}
}

// Data returns a copy of the values being validated.
func (v *Validator) Data() map[string]any {
	return maps.Clone(v.data)
}

// SetFormatOf replaces the format rules.
func (v *Validator) SetFormatOf(rules ...FormatOf) { v.formatOf = rules }

// FormatOf returns the format rules.
func (v *Validator) FormatOf() []FormatOf { return v.formatOf }

// SetInclusionOf replaces the inclusion rules.
func (v *Validator) SetInclusionOf(rules ...InclusionOf) { v.inclusionOf = rules }

// InclusionOf returns the inclusion rules.
func (v *Validator) InclusionOf() []InclusionOf { return v.inclusionOf }

// SetLengthOf replaces the length rules.
func (v *Validator) SetLengthOf(rules ...LengthOf) { v.lengthOf = rules }

// LengthOf returns the length rules.
func (v *Validator) LengthOf() []LengthOf { return v.lengthOf }

// SetNumericalityOf replaces the numericality rules.
func (v *Validator) SetNumericalityOf(rules ...NumericalityOf) { v.numericalityOf = rules }

// NumericalityOf returns the numericality rules.
func (v *Validator) NumericalityOf() []NumericalityOf { return v.numericalityOf }

// SetPresenceOf replaces the presence rules.
func (v *Validator) SetPresenceOf(rules ...PresenceOf) { v.presenceOf = rules }

// PresenceOf returns the presence rules.
func (v *Validator) PresenceOf() []PresenceOf { return v.presenceOf }

// AddError records msg against field.
func (v *Validator) AddError(field, msg string) {
	v.errors[field] = append(v.errors[field], msg)
}

// HasErrors reports whether any message was recorded.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the recorded messages.
func (v *Validator) Errors() Errors {
	return v.errors
}

// Err returns the recorded messages as an error, or nil when there are none.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v.errors
}

// Reset clears recorded messages. Rules, fields and mode are kept.
func (v *Validator) Reset() {
	v.errors = make(Errors)
}

// Execute validates data, or the previously set data when data is empty.
// Messages accumulate across runs until Reset is called.
func (v *Validator) Execute(data map[string]any) error {
	if v.mode == "" {
		return ErrModeNotSet
	}

	if len(data) > 0 {
		v.SetData(data)
	}

	for _, r := range v.formatOf {
		r.validate(v)
	}
	for _, r := range v.inclusionOf {
		r.validate(v)
	}
	for _, r := range v.lengthOf {
		r.validate(v)
	}
	for _, r := range v.numericalityOf {
		r.validate(v)
	}
	for _, r := range v.presenceOf {
		r.validate(v)
	}

	return nil
}

// lookup returns the submitted value for field. A missing or nil value
// reports false.
func (v *Validator) lookup(field string) (any, bool) {
	val, ok := v.data[field]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

// prepare resolves the value a rule sees and whether the rule should run.
// Missing fields are skipped under AllowNil and read as "" otherwise.
func (v *Validator) prepare(field string, o Options, honorBlank bool) (any, bool) {
	val, ok := v.lookup(field)
	if !ok {
		if o.AllowNil {
			return nil, false
		}
		val = ""
	}
	if honorBlank && o.AllowBlank && isBlank(val) {
		return nil, false
	}
	if !o.applies(v.data, v.mode) {
		return nil, false
	}
	return val, true
}
