// Package synth produces the final answer text from a query and its context.
//
// A Synthesizer calls the language model once and applies a confidence
// Policy to the reply. Unconfident replies are replaced by a referral to
// the organization's website; model failures become a fixed apology.
package synth
