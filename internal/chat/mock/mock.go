// Package mock is the deterministic offline chat provider. The same persona
// and prompt always produce the same reply, which keeps the dashboard usable
// without credentials and the tests stable.
package mock

import (
	"context"
	"hash/fnv"

	"fintwin/internal/chat"
)

type Generator struct{}

func New() *Generator {
	return &Generator{}
}

var replies = map[string][]string{
	"Current You": {
		"You're spending steadily this month.\nGroceries and rent lead the way.\nNothing unusual stands out.",
		"Your habits look much like last month.\nMost of your budget goes to essentials.\nKeep an eye on the small extras.",
		"You tend to spend in bursts near the weekend.\nWeekdays stay quiet.\nThat rhythm has been stable for a while.",
	},
	"Good Twin": {
		"Nice work keeping essentials first.\nTry moving a little more into savings.\nFuture you will be grateful.",
		"You resisted some tempting splurges lately.\nThat discipline adds up fast.\nStay the course.",
		"Small daily choices are your superpower.\nSkip one treat this week.\nPut the difference aside.",
	},
	"Evil Twin": {
		"Oh come on, one more treat won't hurt.\nYou earned it, obviously.\nBudgets are for next month.",
		"That thing you keep eyeing? Buy it.\nLife is short and carts are easy.\nWe can do math later.",
		"A little flutter never hurt anyone.\nWell, almost never.\nLet's call it entertainment.",
	},
}

func (g *Generator) Generate(_ context.Context, instruction, prompt string) (chat.Reply, error) {
	persona := personaFromInstruction(instruction)
	canned := replies[persona]
	if len(canned) == 0 {
		canned = replies["Current You"]
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	// Index with unsigned arithmetic; the hash can exceed MaxInt32.
	return chat.Reply{Text: canned[h.Sum32()%uint32(len(canned))]}, nil
}

// personaFromInstruction recovers the persona from its fixed instruction
// text. The instruction strings are static, so matching on a distinctive
// fragment is stable.
func personaFromInstruction(instruction string) string {
	for _, p := range chat.Personas() {
		if p.Instruction == instruction {
			return p.Name
		}
	}
	return "Current You"
}
