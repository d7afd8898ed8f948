package errors

import "fmt"

// Convenience functions for the fatal conditions of a build run.

// TopologyInconsistent reports a docs tree that mixes single-source and
// multi-source layouts.
func TopologyInconsistent(withSubKinds, withoutSubKinds []string) *NavError {
	msg := fmt.Sprintf("site structure mixes single and multiple sources: %v contain branch/tags/pulls but %v do not; "+
		"subdirectories should all contain one of {pulls, tags, branch} or none of them", withSubKinds, withoutSubKinds)
	return New(CategoryTopology, SeverityFatal, msg).
		WithKind(ErrTopologyInconsistent).
		WithContext("with_subkinds", withSubKinds).
		WithContext("without_subkinds", withoutSubKinds)
}

// MissingRoot reports a root redirect request when no site was processed.
func MissingRoot(docsDir string) *NavError {
	return New(CategoryGenerate, SeverityFatal,
		fmt.Sprintf("%s does not contain any sites, so cannot redirect from root index", docsDir)).
		WithKind(ErrMissingRoot).
		WithContext("docs_dir", docsDir)
}

// NoRedirectTarget reports a site with no branches, releases or pull requests
// where a redirect target is required.
func NoRedirectTarget(site string) *NavError {
	return New(CategoryGenerate, SeverityFatal,
		fmt.Sprintf("site %q has no branches, releases or pull requests to redirect to", site)).
		WithKind(ErrNoRedirectTarget).
		WithContext("site", site)
}

// MalformedVersion reports a release directory name that is not a semantic version.
func MalformedVersion(tag string) *NavError {
	return New(CategoryVersion, SeverityFatal, fmt.Sprintf("release tag %q is not a semantic version", tag)).
		WithKind(ErrMalformedVersion).
		WithContext("tag", tag)
}

// MissingRepositoryRef reports a site without a readable .gh_path file.
func MissingRepositoryRef(path string, cause error) *NavError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "site repository reference unreadable").
		WithKind(ErrMissingRepositoryRef).
		WithContext("path", path)
}

// FileSystemError wraps a failed read or write.
func FileSystemError(operation, path string, cause error) *NavError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, operation+" failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// ValidationFailed reports an invalid configuration value.
func ValidationFailed(field, reason string) *NavError {
	return New(CategoryValidation, SeverityFatal, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("reason", reason)
}

// InternalError wraps an unexpected failure.
func InternalError(message string, cause error) *NavError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
