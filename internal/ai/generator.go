package ai

import "context"

// Generator is the upstream generative model: a text prompt in, a single
// free-form text completion out. Implementations must be safe for
// concurrent use; the triage service shares one handle across requests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
