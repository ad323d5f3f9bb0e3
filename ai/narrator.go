package ai

import "context"

// Narrator is the narrative-generation collaborator: prompt in, text out.
// Implementations are best-effort; callers must treat failures as degraded
// output, never as a hard error for the whole request.
type Narrator interface {
	Generate(ctx context.Context, sessionTag, systemPrompt, userPrompt string) (string, error)
}
