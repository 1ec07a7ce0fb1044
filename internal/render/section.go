package render

import "encoding/json"

// Fragment is anything a semantic node translates into: a whole page or a
// piece of one.
type Fragment interface {
	fragment()
}

// Section is a top-level section of a page. Each implementation encodes its
// "kind" discriminant itself.
type Section interface {
	SectionKind() string
	keys(dst []string) []string
}

// DeclarationToken is one token of a declaration.
type DeclarationToken struct {
	Kind       string `json:"kind"`
	Text       string `json:"text"`
	Identifier string `json:"identifier,omitempty"`
}

type Declaration struct {
	Languages []string           `json:"languages,omitempty"`
	Platforms []string           `json:"platforms"`
	Tokens    []DeclarationToken `json:"tokens"`
}

type DeclarationsSection struct {
	Declarations []Declaration `json:"declarations"`
}

func (DeclarationsSection) SectionKind() string { return "declarations" }

func (s DeclarationsSection) keys(dst []string) []string {
	for _, d := range s.Declarations {
		for _, t := range d.Tokens {
			dst = appendNonEmpty(dst, t.Identifier)
		}
	}
	return dst
}

func (s DeclarationsSection) MarshalJSON() ([]byte, error) {
	type alias DeclarationsSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{s.SectionKind(), alias(s)})
}

// ContentSection holds free-form discussion content.
type ContentSection struct {
	Content []Block `json:"content"`
}

func (ContentSection) SectionKind() string { return "content" }

func (s ContentSection) keys(dst []string) []string { return blockKeys(dst, s.Content) }

func (s ContentSection) MarshalJSON() ([]byte, error) {
	type alias ContentSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{s.SectionKind(), alias(s)})
}

type Parameter struct {
	Name    string  `json:"name"`
	Content []Block `json:"content"`
}

type ParametersSection struct {
	Parameters []Parameter `json:"parameters"`
}

func (ParametersSection) SectionKind() string { return "parameters" }

func (s ParametersSection) keys(dst []string) []string {
	for _, p := range s.Parameters {
		dst = blockKeys(dst, p.Content)
	}
	return dst
}

func (s ParametersSection) MarshalJSON() ([]byte, error) {
	type alias ParametersSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{s.SectionKind(), alias(s)})
}

// TaskGroupSection is one "Topics" or "See Also" group.
type TaskGroupSection struct {
	Title       string   `json:"title,omitempty"`
	Abstract    []Inline `json:"abstract,omitempty"`
	Anchor      string   `json:"anchor,omitempty"`
	Identifiers []string `json:"identifiers"`
	Generated   bool     `json:"generated,omitempty"`
}

func (s TaskGroupSection) keys(dst []string) []string {
	dst = inlineKeys(dst, s.Abstract)
	return append(dst, s.Identifiers...)
}

// RelationshipsSection lists the targets of one relationship kind.
type RelationshipsSection struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Identifiers []string `json:"identifiers"`
}

func (s RelationshipsSection) MarshalJSON() ([]byte, error) {
	type alias RelationshipsSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{"relationships", alias(s)})
}

// IntroSection is the hero section of tutorials and overview pages. Image,
// Video and ProjectFiles are reference keys.
type IntroSection struct {
	Title                  string  `json:"title"`
	Chapter                string  `json:"chapter,omitempty"`
	Content                []Block `json:"content"`
	Image                  string  `json:"image,omitempty"`
	Video                  string  `json:"video,omitempty"`
	ProjectFiles           string  `json:"projectFiles,omitempty"`
	EstimatedTimeInMinutes int     `json:"estimatedTimeInMinutes,omitempty"`
}

func (IntroSection) SectionKind() string { return "hero" }

func (IntroSection) fragment() {}

func (s IntroSection) keys(dst []string) []string {
	dst = blockKeys(dst, s.Content)
	return appendNonEmpty(dst, s.Image, s.Video, s.ProjectFiles)
}

func (s IntroSection) MarshalJSON() ([]byte, error) {
	type alias IntroSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{s.SectionKind(), alias(s)})
}

// Task is one section of a tutorial with its steps.
type Task struct {
	Title          string  `json:"title"`
	Anchor         string  `json:"anchor"`
	ContentSection []Block `json:"contentSection"`
	Media          string  `json:"media,omitempty"`
	StepsSection   []Block `json:"stepsSection"`
}

type TasksSection struct {
	Tasks []Task `json:"tasks"`
}

func (TasksSection) SectionKind() string { return "tasks" }

func (s TasksSection) keys(dst []string) []string {
	for _, t := range s.Tasks {
		dst = blockKeys(dst, t.ContentSection)
		dst = appendNonEmpty(dst, t.Media)
		dst = blockKeys(dst, t.StepsSection)
	}
	return dst
}

func (s TasksSection) MarshalJSON() ([]byte, error) {
	type alias TasksSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{s.SectionKind(), alias(s)})
}

type Choice struct {
	Content       []Block `json:"content"`
	IsCorrect     bool    `json:"isCorrect"`
	Justification []Block `json:"justification,omitempty"`
	Reaction      string  `json:"reaction,omitempty"`
}

type MultipleChoice struct {
	Title   []Block  `json:"title"`
	Content []Block  `json:"content,omitempty"`
	Choices []Choice `json:"choices"`
}

func (q MultipleChoice) MarshalJSON() ([]byte, error) {
	type alias MultipleChoice
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"multiple-choice", alias(q)})
}

type AssessmentsSection struct {
	Anchor      string           `json:"anchor"`
	Assessments []MultipleChoice `json:"assessments"`
}

func (AssessmentsSection) SectionKind() string { return "assessments" }

func (AssessmentsSection) fragment() {}

func (s AssessmentsSection) keys(dst []string) []string {
	for _, q := range s.Assessments {
		dst = blockKeys(dst, q.Title)
		dst = blockKeys(dst, q.Content)
		for _, c := range q.Choices {
			dst = blockKeys(dst, c.Content)
			dst = blockKeys(dst, c.Justification)
		}
	}
	return dst
}

func (s AssessmentsSection) MarshalJSON() ([]byte, error) {
	type alias AssessmentsSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{s.SectionKind(), alias(s)})
}

// Chapter lists the tutorials of one chapter by reference key.
type Chapter struct {
	Name      string   `json:"name"`
	Content   []Block  `json:"content"`
	Image     string   `json:"image,omitempty"`
	Tutorials []string `json:"tutorials"`
}

type VolumeSection struct {
	Name     string    `json:"name,omitempty"`
	Chapters []Chapter `json:"chapters"`
}

func (VolumeSection) SectionKind() string { return "volume" }

func (s VolumeSection) keys(dst []string) []string {
	for _, c := range s.Chapters {
		dst = blockKeys(dst, c.Content)
		dst = appendNonEmpty(dst, c.Image)
		dst = append(dst, c.Tutorials...)
	}
	return dst
}

func (s VolumeSection) MarshalJSON() ([]byte, error) {
	type alias VolumeSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{s.SectionKind(), alias(s)})
}

// ContentAndMediaSection is a body section of a tutorial article.
type ContentAndMediaSection struct {
	Content []Block `json:"content"`
	Media   string  `json:"media,omitempty"`
}

func (ContentAndMediaSection) SectionKind() string { return "contentAndMedia" }

func (s ContentAndMediaSection) keys(dst []string) []string {
	return appendNonEmpty(blockKeys(dst, s.Content), s.Media)
}

func (s ContentAndMediaSection) MarshalJSON() ([]byte, error) {
	type alias ContentAndMediaSection
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{s.SectionKind(), alias(s)})
}

// SampleDownload is the call-to-action of a sample-code page.
type SampleDownload struct {
	Action Inline `json:"action"`
	Kind   string `json:"kind"`
}
