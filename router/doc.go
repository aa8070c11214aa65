// Package router selects the information source that answers a query.
//
// A Router asks the language model to name one tool from a Catalog and
// resolves the reply by exact name match. Anything that is not exactly a
// catalog name resolves to Unresolved; there is no fuzzy correction and no
// retry.
package router
