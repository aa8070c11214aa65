// Package tools implements the information sources a query can be routed to.
//
// Each tool produces raw output for context assembly: structured values are
// serialized later, text is passed through. Tools degrade to error records
// rather than failing; only the corpus-backed BlogReferences tool returns
// errors, and only when the corpus cannot be read.
package tools
