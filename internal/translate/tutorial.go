package translate

import (
	"fmt"

	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// requireIntro fails the build for tutorial pages without an intro, which
// upstream validation guarantees.
func (t *Translator) requireIntro(intro *semantic.Intro, kind string) (*semantic.Intro, bool) {
	if intro == nil {
		t.invariant("%s has no intro", kind)
		return nil, false
	}
	return intro, true
}

func (t *Translator) tutorial(n *semantic.Tutorial) *render.Node {
	intro, ok := t.requireIntro(n.Intro, "tutorial")
	if !ok {
		return nil
	}
	node := t.newNode(render.KindTutorial)
	node.Metadata = render.Metadata{
		Title:       variant.Value(intro.Title),
		RoleHeading: variant.Value("Tutorial"),
		Role:        render.RoleProject,
		Category:    t.technologyTitle(),
	}
	if intro.EstimatedMinutes > 0 {
		node.Metadata.EstimatedTime = fmt.Sprintf("%dmin", intro.EstimatedMinutes)
	}
	node.Hierarchy = t.hierarchy()

	hero := t.intro(intro, n.ProjectFiles)
	node.Sections = append(node.Sections, hero)

	var tasks []render.Task
	for _, s := range n.Sections {
		task := render.Task{
			Title:          s.Title,
			Anchor:         semantic.URLReadableFragment(s.Title),
			ContentSection: t.ctx.compiler.Blocks(s.Content),
		}
		if key, ok := t.registerMedia(s.Media, ""); ok {
			task.Media = key
		}
		for _, step := range s.Steps {
			task.StepsSection = append(task.StepsSection, t.step(step))
		}
		tasks = append(tasks, task)
	}
	if len(tasks) > 0 {
		node.Sections = append(node.Sections, render.TasksSection{Tasks: tasks})
	}
	if n.Assessments != nil {
		node.Sections = append(node.Sections, t.assessments(n.Assessments))
	}
	return node
}

func (t *Translator) tutorialArticle(n *semantic.TutorialArticle) *render.Node {
	intro, ok := t.requireIntro(n.Intro, "tutorial article")
	if !ok {
		return nil
	}
	node := t.newNode(render.KindArticle)
	node.Metadata = render.Metadata{
		Title:       variant.Value(intro.Title),
		RoleHeading: variant.Value("Article"),
		Role:        render.RoleArticle,
		Category:    t.technologyTitle(),
	}
	if intro.EstimatedMinutes > 0 {
		node.Metadata.EstimatedTime = fmt.Sprintf("%dmin", intro.EstimatedMinutes)
	}
	node.Hierarchy = t.hierarchy()

	node.Sections = append(node.Sections, t.intro(intro, ""))
	if blocks := t.ctx.compiler.Blocks(n.Content); len(blocks) > 0 {
		node.Sections = append(node.Sections, render.ContentAndMediaSection{Content: blocks})
	}
	if n.Assessments != nil {
		node.Sections = append(node.Sections, t.assessments(n.Assessments))
	}
	return node
}

func (t *Translator) technology(n *semantic.Technology) *render.Node {
	intro, ok := t.requireIntro(n.Intro, "technology")
	if !ok {
		return nil
	}
	node := t.newNode(render.KindOverview)
	node.Metadata = render.Metadata{
		Title:       variant.Value(intro.Title),
		RoleHeading: variant.Value("Technology"),
		Role:        render.RoleOverview,
	}
	node.Hierarchy = t.hierarchy()
	node.Sections = append(node.Sections, t.intro(intro, ""))

	for _, v := range n.Volumes {
		vol := render.VolumeSection{Name: v.Name, Chapters: []render.Chapter{}}
		for _, ch := range v.Chapters {
			chapter := render.Chapter{
				Name:      ch.Name,
				Content:   t.ctx.compiler.Blocks(ch.Content),
				Tutorials: []string{},
			}
			if key, ok := t.registerMedia(ch.Image, ""); ok {
				chapter.Image = key
			}
			for _, link := range ch.TutorialLinks {
				if id, ok := t.resolve(link); ok {
					chapter.Tutorials = append(chapter.Tutorials, t.ctx.addTopic(id))
				}
			}
			vol.Chapters = append(vol.Chapters, chapter)
		}
		node.Sections = append(node.Sections, vol)
	}
	return node
}

// technologyTitle returns the title of the first page in the breadcrumbs,
// which for tutorials is their technology.
func (t *Translator) technologyTitle() string {
	path := t.env.canonicalPath(t.ctx.id)
	if len(path) == 0 {
		return ""
	}
	if p, ok := t.env.Model.Page(path[0]); ok {
		return reference.Title(p).Default()
	}
	if n, ok := t.env.Graph.Node(path[0]); ok {
		return n.Title
	}
	return ""
}

// intro renders a hero section. projectFiles names a download offered with
// the intro.
func (t *Translator) intro(n *semantic.Intro, projectFiles string) render.IntroSection {
	s := render.IntroSection{
		Title:                  n.Title,
		Content:                t.ctx.compiler.Blocks(n.Content),
		EstimatedTimeInMinutes: n.EstimatedMinutes,
	}
	if s.Content == nil {
		s.Content = []render.Block{}
	}
	if key, ok := t.registerMedia(n.Image, ""); ok {
		s.Image = key
	}
	if key, ok := t.registerMedia(n.Video, n.Poster); ok {
		s.Video = key
	}
	if key, ok := t.registerDownload(projectFiles); ok {
		s.ProjectFiles = key
	}
	return s
}

func (t *Translator) step(n *semantic.Step) render.Step {
	s := render.Step{
		Content: t.ctx.compiler.Blocks(n.Content),
		Caption: t.ctx.compiler.Blocks(n.Caption),
	}
	if key, ok := t.registerMedia(n.Media, ""); ok {
		s.Media = key
	}
	if key, ok := t.registerFile(n.Code); ok {
		s.Code = key
	}
	return s
}

func (t *Translator) assessments(n *semantic.Assessments) render.AssessmentsSection {
	c := t.ctx.compiler
	out := render.AssessmentsSection{Anchor: "Check-Your-Understanding", Assessments: []render.MultipleChoice{}}
	for _, q := range n.Questions {
		mc := render.MultipleChoice{Title: c.Blocks(q.Title), Content: c.Blocks(q.Content)}
		for _, ch := range q.Choices {
			reaction := "Not quite"
			if ch.Correct {
				reaction = "That's right!"
			}
			mc.Choices = append(mc.Choices, render.Choice{
				Content:       c.Blocks(ch.Content),
				IsCorrect:     ch.Correct,
				Justification: c.Blocks(ch.Justification),
				Reaction:      reaction,
			})
		}
		out.Assessments = append(out.Assessments, mc)
	}
	return out
}
