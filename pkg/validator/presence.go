package validator

// PresenceOf requires a field to be submitted and not empty.
// Only the If, Unless and On guards apply.
type PresenceOf struct {
	Field string
	Options
}

const defaultPresenceMessage = "%s is required"

func (r PresenceOf) validate(v *Validator) {
	if !r.applies(v.data, v.mode) {
		return
	}

	val, ok := v.lookup(r.Field)
	if !ok || isBlank(val) {
		v.AddError(r.Field, sprintf(r.message(defaultPresenceMessage), v.Label(r.Field)))
	}
}
