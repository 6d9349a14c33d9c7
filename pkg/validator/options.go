package validator

// Mode selects which rules apply during a validation run.
type Mode string

// Validation modes.
const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"

	// OnSave restricts nothing: the rule runs in every mode.
	OnSave Mode = "save"
)

// Condition decides at run time whether a rule applies.
// It receives the data being validated.
type Condition func(data map[string]any) bool

// Bool returns a Condition with a constant result.
func Bool(b bool) Condition {
	return func(map[string]any) bool { return b }
}

// Ptr returns a pointer to v. It is handy for optional rule bounds.
func Ptr[T any](v T) *T {
	return &v
}

// Options holds the guards shared by every rule.
type Options struct {
	// If skips the rule when it returns false. Nil means always.
	If Condition
	// Unless skips the rule when it returns true. Nil means never.
	Unless Condition
	// On limits the rule to a mode. Empty or OnSave means every mode.
	On Mode
	// Message replaces the default message template.
	Message string
	// AllowNil skips the rule when the field was not submitted.
	AllowNil bool
	// AllowBlank skips the rule when the field is an empty string.
	// Presence and numericality rules ignore it.
	AllowBlank bool
}

func (o Options) applies(data map[string]any, mode Mode) bool {
	if o.If != nil && !o.If(data) {
		return false
	}
	if o.Unless != nil && o.Unless(data) {
		return false
	}
	if o.On != "" && o.On != OnSave && o.On != mode {
		return false
	}
	return true
}

func (o Options) message(def string) string {
	if o.Message != "" {
		return o.Message
	}
	return def
}
