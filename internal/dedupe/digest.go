package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/goalplan/internal/contract"
	"github.com/alexanderramin/goalplan/internal/domain"
)

// Digest returns the hex SHA-256 of the normalized submission. Transcript
// content is trimmed and whitespace-collapsed and roles are lowercased, so
// retries that differ only in spacing share a digest.
func Digest(sub contract.Submission) (string, error) {
	norm := sub
	norm.Transcript = make([]domain.Turn, len(sub.Transcript))
	for i, turn := range sub.Transcript {
		norm.Transcript[i] = domain.Turn{
			Role:    domain.Role(strings.ToLower(strings.TrimSpace(string(turn.Role)))),
			Content: strings.Join(strings.Fields(turn.Content), " "),
		}
	}
	norm.Fields.Goal = strings.Join(strings.Fields(sub.Fields.Goal), " ")

	// Struct fields marshal in declaration order, so the encoding is stable.
	raw, err := json.Marshal(norm)
	if err != nil {
		return "", fmt.Errorf("encode submission: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
