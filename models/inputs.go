package models

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/errs"
)

// ProjectInput is the editable part of a project as submitted by the dashboard.
type ProjectInput struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Tagline       *string     `json:"tagline,omitempty"`
	Features      []string    `json:"features,omitempty"`
	Duration      *string     `json:"duration,omitempty"`
	TeamSize      *int        `json:"team_size,omitempty"`
	Role          *string     `json:"role,omitempty"`
	Challenges    *string     `json:"challenges,omitempty"`
	Solutions     *string     `json:"solutions,omitempty"`
	Category      Category    `json:"category"`
	GithubURL     *string     `json:"github_url,omitempty"`
	LiveURL       *string     `json:"live_url,omitempty"`
	TechnologyIDs []uuid.UUID `json:"technology_ids,omitempty"`
}

// NewProjectInput builds an edit draft from an existing project.
func NewProjectInput(p *Project) ProjectInput {
	in := ProjectInput{
		Title:       p.Title,
		Description: p.Description,
		Tagline:     p.Tagline,
		Features:    append([]string(nil), p.Features...),
		Duration:    p.Duration,
		TeamSize:    p.TeamSize,
		Role:        p.Role,
		Challenges:  p.Challenges,
		Solutions:   p.Solutions,
		Category:    p.Category,
		GithubURL:   p.GithubURL,
		LiveURL:     p.LiveURL,
	}
	for _, tech := range p.Technologies {
		in.TechnologyIDs = append(in.TechnologyIDs, tech.ID)
	}
	return in
}

// Validate returns the normalized input or the first field error.
func (in ProjectInput) Validate() (ProjectInput, error) {
	out := in
	out.Title = strings.TrimSpace(in.Title)
	if out.Title == "" {
		return ProjectInput{}, errs.NewMissingRequiredFieldError("title")
	}
	out.Description = strings.TrimSpace(in.Description)
	if out.Description == "" {
		return ProjectInput{}, errs.NewMissingRequiredFieldError("description")
	}
	if out.Category == "" {
		out.Category = CategoryFullstack
	}
	if !out.Category.Valid() {
		return ProjectInput{}, errs.NewInvalidFieldError("category", "must be one of fullstack, AI/ML, data")
	}
	if out.TeamSize != nil && *out.TeamSize < 1 {
		return ProjectInput{}, errs.NewInvalidFieldError("team_size", "must be at least 1")
	}

	out.Tagline = optionalText(in.Tagline)
	out.Duration = optionalText(in.Duration)
	out.Role = optionalText(in.Role)
	out.Challenges = optionalText(in.Challenges)
	out.Solutions = optionalText(in.Solutions)

	var err error
	if out.GithubURL, err = optionalURL("github_url", in.GithubURL); err != nil {
		return ProjectInput{}, err
	}
	if out.LiveURL, err = optionalURL("live_url", in.LiveURL); err != nil {
		return ProjectInput{}, err
	}

	out.Features = nil
	for _, f := range in.Features {
		if f = strings.TrimSpace(f); f != "" {
			out.Features = append(out.Features, f)
		}
	}

	out.TechnologyIDs = nil
	seen := make(map[uuid.UUID]bool, len(in.TechnologyIDs))
	for _, id := range in.TechnologyIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out.TechnologyIDs = append(out.TechnologyIDs, id)
	}
	return out, nil
}

// Apply copies the input onto p. Paths, ID and timestamps are left alone.
func (in ProjectInput) Apply(p *Project) {
	p.Title = in.Title
	p.Description = in.Description
	p.Tagline = in.Tagline
	p.Features = in.Features
	p.Duration = in.Duration
	p.TeamSize = in.TeamSize
	p.Role = in.Role
	p.Challenges = in.Challenges
	p.Solutions = in.Solutions
	p.Category = in.Category
	p.GithubURL = in.GithubURL
	p.LiveURL = in.LiveURL
}

type TechnologyInput struct {
	Name string `json:"name"`
}

func NewTechnologyInput(t *Technology) TechnologyInput {
	return TechnologyInput{Name: t.Name}
}

func (in TechnologyInput) Validate() (TechnologyInput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return TechnologyInput{}, errs.NewMissingRequiredFieldError("name")
	}
	return TechnologyInput{Name: name}, nil
}

func (in TechnologyInput) Apply(t *Technology) {
	t.Name = in.Name
}

type CertificateInput struct {
	Title   string  `json:"title"`
	ShowURL *string `json:"show_url,omitempty"`
}

func NewCertificateInput(c *Certificate) CertificateInput {
	return CertificateInput{Title: c.Title, ShowURL: c.ShowURL}
}

func (in CertificateInput) Validate() (CertificateInput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return CertificateInput{}, errs.NewMissingRequiredFieldError("title")
	}
	showURL, err := optionalURL("show_url", in.ShowURL)
	if err != nil {
		return CertificateInput{}, err
	}
	return CertificateInput{Title: title, ShowURL: showURL}, nil
}

func (in CertificateInput) Apply(c *Certificate) {
	c.Title = in.Title
	c.ShowURL = in.ShowURL
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalURL(field string, s *string) (*string, error) {
	value := optionalText(s)
	if value == nil {
		return nil, nil
	}
	u, err := url.ParseRequestURI(*value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errs.NewInvalidFieldError(field, "must be an absolute http(s) URL")
	}
	return value, nil
}
