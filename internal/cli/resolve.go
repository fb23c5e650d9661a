package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveID matches input against ids: exact match first, then a unique prefix.
func resolveID(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveConversationID(ctx context.Context, app *App, input string) (string, error) {
	convs, err := app.Conversations.List(ctx, 1000)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}
	return resolveID("interview", input, ids)
}

func resolveGoalID(ctx context.Context, app *App, input string) (string, error) {
	goals, err := app.Goals.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	return resolveID("plan", input, ids)
}
