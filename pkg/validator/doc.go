// Package validator runs declarative field rules over submitted form data.
//
// A Validator knows the fields it accepts together with their human labels,
// a mode (create or update) and five rule tables. Execute narrows the
// submitted data to the known fields and evaluates the tables in a fixed
// order: format, inclusion, length, numericality, presence. Failed checks
// are accumulated per field instead of being returned as errors.
//
// # Rules
//
// Every rule embeds Options, which carries the shared guards:
//
//   - If and Unless are conditions evaluated against the submitted data.
//   - On restricts the rule to a mode; OnSave (or empty) always applies.
//   - AllowNil skips fields that were not submitted at all.
//   - AllowBlank skips fields submitted as an empty string.
//   - Message overrides the default message template.
//
// A rule with only Field set applies the defaults:
//
//	v := validator.New(validator.WithFields(map[string]string{
//		"title": "Title",
//		"votes": "Votes",
//	}))
//	v.SetPresenceOf(validator.PresenceOf{Field: "title"})
//	v.SetNumericalityOf(validator.NumericalityOf{
//		Field:       "votes",
//		Options:     validator.Options{AllowNil: true},
//		GreaterThan: validator.Ptr(0.0),
//	})
//	v.SetCreateMode()
//
//	if err := v.Execute(form); err != nil {
//		return err // ErrModeNotSet
//	}
//	if v.HasErrors() {
//		render(v.Errors())
//	}
//
// # Messages
//
// Templates are fmt format strings. The field label is always the first
// argument, followed by rule-specific values such as bounds and units.
// Arguments beyond the verbs present in a template are dropped, so a custom
// message may simply read "%s looks wrong".
package validator
