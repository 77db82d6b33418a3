package conversation

import (
	"fmt"
	"strings"

	"receptionist-platform/internal/business"
	"receptionist-platform/internal/prompt"
)

const defaultHoursText = "Monday-Friday: 9:00 AM - 5:00 PM"

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// BuildModelContext assembles the system prompt for a call: business facts,
// opening hours, the receptionist's standing rules, and the business's
// configured scripts in priority order. The result is fixed for the whole
// call.
func BuildModelContext(b business.Business, prompts []prompt.Prompt) string {
	name := b.Name
	if name == "" {
		name = "our office"
	}
	businessType := b.BusinessType
	if businessType == "" {
		businessType = "dental office"
	}
	services := "General services"
	if len(b.Services) > 0 {
		services = strings.Join(b.Services, ", ")
	}
	personality := b.AIPersonality
	if personality == "" {
		personality = "Be professional, friendly, and helpful. Speak clearly and concisely."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an AI receptionist for %s.
Your role is to professionally and warmly assist callers with their needs.

BUSINESS INFORMATION:
- Name: %s
- Type: %s
- Phone: %s
- Address: %s, %s, %s %s

BUSINESS HOURS:
%s

SERVICES OFFERED:
%s

PERSONALITY GUIDELINES:
%s

IMPORTANT RULES:
1. Always be polite and professional
2. Never make up information you don't have
3. If you can't help with something, offer to transfer to a human
4. For emergencies, advise calling 911 if life-threatening
5. Collect necessary information for appointments (name, phone, preferred date/time, reason)
6. Confirm information back to the caller before proceeding
7. Keep responses concise and natural for voice conversation

AVAILABLE ACTIONS:
- Schedule appointment (requires: name, phone, date, time, reason)
- Answer questions about services, hours, location
- Cancel or reschedule existing appointments
- Transfer to human staff
- Take a message
`,
		name, orNA(b.Name), businessType, orNA(b.PhoneNumber),
		orNA(b.AddressLine1), b.City, b.State, b.ZipCode,
		formatHours(b.Hours), services, personality)

	if section := formatPrompts(prompts); section != "" {
		sb.WriteString(section)
	}
	return sb.String()
}

// formatHours renders opening times in fixed weekday order. Days missing
// from the map are skipped; an empty or all-missing map falls back to a
// sensible default so the model never sees an empty section.
func formatHours(hours map[string]business.DayHours) string {
	if len(hours) == 0 {
		return defaultHoursText
	}
	var lines []string
	for _, day := range weekdays {
		dh, ok := hours[day]
		if !ok {
			continue
		}
		label := strings.ToUpper(day[:1]) + day[1:]
		if dh.Closed {
			lines = append(lines, label+": Closed")
			continue
		}
		open, close := dh.Open, dh.Close
		if open == "" {
			open = "9:00"
		}
		if close == "" {
			close = "17:00"
		}
		lines = append(lines, fmt.Sprintf("%s: %s - %s", label, open, close))
	}
	if len(lines) == 0 {
		return defaultHoursText
	}
	return strings.Join(lines, "\n")
}

// formatPrompts flattens the business's scripts into one instruction block.
// Callers must pass prompts already ordered by priority; relevance is the
// model's job, not ours.
func formatPrompts(prompts []prompt.Prompt) string {
	if len(prompts) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nCUSTOM PROMPTS AND RESPONSES:\n")
	for _, p := range prompts {
		category := string(p.Category)
		if category == "" {
			category = "general"
		}
		instructions := p.AIInstructions
		if instructions == "" {
			instructions = "Respond naturally"
		}
		fmt.Fprintf(&sb, "\nWhen caller mentions: %s\nCategory: %s\nResponse: %s\nInstructions: %s\n",
			strings.Join(p.TriggerPhrases, ", "), category, p.Content, instructions)
		if p.RequiresInfoCollection {
			fmt.Fprintf(&sb, "Collect: %s\n", strings.Join(p.FieldsToCollect, ", "))
		}
	}
	return sb.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
