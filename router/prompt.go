package router

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the classification instructions for catalog.
// The tool list is generated from the catalog so the prompt always names
// exactly the accepted replies.
func BuildPrompt(catalog *Catalog) string {
	var b strings.Builder
	b.WriteString("You are a helpful AI assistant that decides which tool to use for answering a query.\n")
	b.WriteString("You have the following tools available:\n\n")
	for i, t := range catalog.Tools() {
		fmt.Fprintf(&b, "%d. %q - %s\n", i+1, t.Name, t.Description)
	}
	b.WriteString("\nBased on the user query, choose the most relevant tool.\n")
	b.WriteString("Respond with ONLY the tool name in exact wording.")
	return b.String()
}

// userPrompt wraps the raw query for the classification request.
func userPrompt(query string) string {
	return "User Query: " + query
}
