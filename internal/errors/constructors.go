package errors

// Convenience constructors for the error taxonomy used across the linker.

// InvalidRule reports an unusable rule definition: an unparsable matcher, or a
// template referencing a capture group or variable the matcher does not provide.
// Always fatal; surfaced at configuration time before any document is touched.
func InvalidRule(message string) *LinkerError {
	return New(CategoryRule, SeverityFatal, message)
}

// WrapInvalidRule wraps an underlying compile error (typically from regexp)
// into an InvalidRule error.
func WrapInvalidRule(err error, message string) *LinkerError {
	return Wrap(err, CategoryRule, SeverityFatal, message)
}

// TemplateSubstitution reports that one specific match could not be rendered.
// The offending span is left verbatim and processing continues; callers should
// surface these as warnings.
func TemplateSubstitution(message string) *LinkerError {
	return New(CategoryTemplate, SeverityWarning, message)
}

// RepositoryUnavailable reports that tag metadata cannot be obtained. Fatal
// for date annotation only; link rewriting proceeds with an empty date map.
func RepositoryUnavailable(err error, path string) *LinkerError {
	return Wrap(err, CategoryRepository, SeverityError, "repository unavailable").
		WithContext("path", path)
}

// ConfigError reports an unusable configuration file.
func ConfigError(err error, message string) *LinkerError {
	return Wrap(err, CategoryConfig, SeverityFatal, message)
}

// IsInvalidRule reports whether err is an invalid-rule error.
func IsInvalidRule(err error) bool { return IsCategory(err, CategoryRule) }

// IsTemplateSubstitution reports whether err is a per-match rendering error.
func IsTemplateSubstitution(err error) bool { return IsCategory(err, CategoryTemplate) }

// IsRepositoryUnavailable reports whether err is a repository access error.
func IsRepositoryUnavailable(err error) bool { return IsCategory(err, CategoryRepository) }
