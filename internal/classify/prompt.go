package classify

import (
	"fmt"
	"strings"

	"leadsnap-engine/internal/domain"
)

// SystemPrompt is the fixed instruction sent with every chat. The model must
// answer with a JSON object holding exactly the four LeadAnalysis keys.
func SystemPrompt() string {
	quoted := make([]string, len(domain.Statuses))
	for i, s := range domain.Statuses {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`You are a CRM assistant for a freelancer.
Analyze the WhatsApp chat history provided.
Extract the following fields and reply with a strict JSON object containing exactly these keys:
1. summary: a 1-sentence summary of the business intent.
2. status: one of [%s].
3. next_step: a concrete action item (e.g. "Send Invoice", "Follow up on Tuesday").
4. deal_value: estimated money involved (e.g. "₹50,000" or "Unknown").

If the chat is personal or junk, set status to %q.`, strings.Join(quoted, ", "), domain.StatusCold)
}
