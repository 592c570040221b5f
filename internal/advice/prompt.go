package advice

import (
	"fmt"
	"strings"
)

const generalKnowledge = "General plant care knowledge."

// AskPrompt composes the text prompt for a care question. plantNames
// lists the plants the user keeps.
func AskPrompt(question, contextJSON string, plantNames []string) string {
	reference := strings.TrimSpace(contextJSON)
	if reference == "" {
		reference = generalKnowledge
	}

	var b strings.Builder
	b.WriteString("Context: You are a professional botanist and indoor plant care expert.\n")
	if len(plantNames) > 0 {
		fmt.Fprintf(&b, "The user is asking about their specific plants: %s.\n", joinOr(plantNames))
	}
	fmt.Fprintf(&b, "Reference Material: %s\n\n", reference)
	fmt.Fprintf(&b, "User Query: %s\n\n", question)
	b.WriteString("Response requirements:\n")
	b.WriteString("- Provide deep, expert-level botanical analysis.\n")
	b.WriteString("- Use Markdown for formatting.\n")
	b.WriteString("- If the user asks about window placement, explain based on North/South/East/West facing windows.\n")
	return b.String()
}

// DiagnosePrompt is the instruction sent alongside a plant photo.
func DiagnosePrompt(plantName string) string {
	if strings.TrimSpace(plantName) == "" {
		plantName = "plant"
	}
	return fmt.Sprintf("This is a high-resolution photo of my %s. As a professional plant pathologist, "+
		"please diagnose its health. Look for subtle signs of nutrient deficiency, pest infestation, "+
		"or watering stress. Give me a detailed recovery plan.", plantName)
}

func joinOr(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
