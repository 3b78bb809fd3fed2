// Package validation checks request fields before a repository mutates its
// collection. Every failure is reported as a FieldError so the API layer can
// return all problems of a request at once.
package validation
