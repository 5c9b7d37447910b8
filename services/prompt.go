package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/rpupo63/portfolio-backend/config"
)

const systemPromptTemplate = `You are the assistant on {{.name}}'s portfolio website. Visitors ask you about {{.name}}'s work, skills and background.
Answer in a friendly, concise way, in the visitor's language, and only with the facts below. If you do not know something, say so and suggest using the contact form.
Do not invent projects, employers, dates or contact details.

Name: {{.name}}
Headline: {{.headline}}
Location: {{.location}}

About:
{{.about}}

Skills:
{{.skills}}

Experience:
{{.experience}}

Education:
{{.education}}

Links:
{{.links}}`

// RenderSystemPrompt briefs the chat assistant with the owner profile.
func RenderSystemPrompt(profile *config.Profile) (string, error) {
	tmpl := prompts.NewPromptTemplate(systemPromptTemplate, []string{
		"name", "headline", "location", "about", "skills", "experience", "education", "links",
	})

	var skills []string
	for _, group := range profile.Skills {
		skills = append(skills, fmt.Sprintf("- %s: %s", group.Category, strings.Join(group.Items, ", ")))
	}

	var experience []string
	for _, e := range profile.Experience {
		line := fmt.Sprintf("- %s at %s (%s)", e.Role, e.Company, e.Period)
		if e.Summary != "" {
			line += ": " + e.Summary
		}
		experience = append(experience, line)
	}

	var education []string
	for _, e := range profile.Education {
		education = append(education, fmt.Sprintf("- %s, %s (%s)", e.Degree, e.Institution, e.Period))
	}

	linkNames := make([]string, 0, len(profile.Links))
	for name := range profile.Links {
		linkNames = append(linkNames, name)
	}
	sort.Strings(linkNames)
	var links []string
	for _, name := range linkNames {
		links = append(links, fmt.Sprintf("- %s: %s", name, profile.Links[name]))
	}

	prompt, err := tmpl.Format(map[string]any{
		"name":       profile.Name,
		"headline":   profile.Headline,
		"location":   orNone(profile.Location),
		"about":      orNone(strings.TrimSpace(profile.About)),
		"skills":     orNone(strings.Join(skills, "\n")),
		"experience": orNone(strings.Join(experience, "\n")),
		"education":  orNone(strings.Join(education, "\n")),
		"links":      orNone(strings.Join(links, "\n")),
	})
	if err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}
	return prompt, nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
