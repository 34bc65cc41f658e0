// Package validator provides rule-based input validation.
//
// Rules are built eagerly and checked by Apply, which reports every failure at
// once as ValidationErrors:
//
//	err := validator.Apply(
//		validator.RequiredString("repository", s.Repository),
//		validator.MinNum("test_files", s.TestFiles, 0),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve.Has("repository") {
//		// ...
//	}
package validator
