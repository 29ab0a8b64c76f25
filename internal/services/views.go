package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/huangang/codebook/backend/internal/models"
)

// SkillList is the "skills" request field. It decodes from either a single
// space-delimited string or a JSON list where each element is one tag.
// Use *SkillList in request structs: nil means the field was omitted (or
// null) and leaves tags unchanged, an empty list clears them.
type SkillList []string

func (l *SkillList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = strings.Fields(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.New("skills must be a string or a list of strings")
	}
	*l = items
	return nil
}

// SkillNames projects skills onto their display names.
func SkillNames(skills []models.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, sk := range skills {
		names = append(names, sk.Name)
	}
	return names
}

type SkillView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func NewSkillView(sk *models.Skill) SkillView {
	return SkillView{ID: sk.ID, Name: sk.Name, Slug: sk.SlugValue(), Description: sk.Description}
}

// SkillDetailView lists who uses a skill.
type SkillDetailView struct {
	SkillView
	Profiles []string `json:"profiles"`
	Projects []string `json:"projects"`
}

// ReviewView is the {author, vote, body, created} tuple shown under a project.
type ReviewView struct {
	ID        uint        `json:"id"`
	ProjectID uint        `json:"project_id"`
	Author    string      `json:"author"`
	Vote      models.Vote `json:"vote"`
	Body      string      `json:"body"`
	Created   time.Time   `json:"created"`
}

func NewReviewView(r *models.Review) ReviewView {
	v := ReviewView{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Vote:      r.Vote,
		Body:      r.Body,
		Created:   r.CreatedAt,
	}
	if r.User != nil {
		v.Author = r.User.Username
	}
	return v
}

func NewReviewViews(reviews []models.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, NewReviewView(&reviews[i]))
	}
	return views
}

type ProfileView struct {
	ID         uint      `json:"id"`
	Slug       string    `json:"slug"`
	UserID     uint      `json:"user_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	ShortIntro string    `json:"short_intro"`
	Bio        string    `json:"bio"`
	Github     string    `json:"github"`
	Linkedin   string    `json:"linkedin"`
	Youtube    string    `json:"youtube"`
	Skills     []string  `json:"skills"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewProfileView(p *models.Profile, skills []models.Skill) ProfileView {
	v := ProfileView{
		ID:         p.ID,
		UserID:     p.UserID,
		ShortIntro: p.ShortIntro,
		Bio:        p.Bio,
		Github:     p.Github,
		Linkedin:   p.Linkedin,
		Youtube:    p.Youtube,
		Skills:     SkillNames(skills),
		CreatedAt:  p.CreatedAt,
	}
	if p.Slug != nil {
		v.Slug = *p.Slug
	}
	if p.User != nil {
		v.Username = p.User.Username
		v.Name = p.User.FullName()
	}
	return v
}

type ProjectView struct {
	ID             uint         `json:"id"`
	Slug           string       `json:"slug"`
	OwnerID        uint         `json:"owner_id"`
	Owner          string       `json:"owner"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	DemoLink       string       `json:"demo_link"`
	SourceCodeLink string       `json:"source_code_link"`
	YoutubeLink    string       `json:"youtube_link"`
	Skills         []string     `json:"skills"`
	VoteRatio      int          `json:"vote_ratio"`
	Reviews        []ReviewView `json:"reviews,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

func NewProjectView(p *models.Project, skills []models.Skill, ratio int) ProjectView {
	v := ProjectView{
		ID:             p.ID,
		OwnerID:        p.UserID,
		Title:          p.Title,
		Description:    p.Description,
		DemoLink:       p.DemoLink,
		SourceCodeLink: p.SourceCodeLink,
		YoutubeLink:    p.YoutubeLink,
		Skills:         SkillNames(skills),
		VoteRatio:      ratio,
		CreatedAt:      p.CreatedAt,
	}
	if p.Slug != nil {
		v.Slug = *p.Slug
	}
	if p.User != nil {
		v.Owner = p.User.Username
	}
	return v
}
