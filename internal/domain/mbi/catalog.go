// Package mbi scores Maslach Burnout Inventory submissions.
package mbi

// Category identifies one of the three MBI sub-scales.
type Category string

// MBI sub-scale categories.
const (
	EmotionalExhaustion    Category = "emotional_exhaustion"
	Depersonalization      Category = "depersonalization"
	PersonalAccomplishment Category = "personal_accomplishment"
)

// Question is one inventory item.
type Question struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Catalog is a fixed, versioned set of inventory items. It is built once
// and treated as immutable; scorers hold a lookup index over it.
type Catalog struct {
	version   string
	questions []Question
	byID      map[int]Question
}

// NewCatalog builds a catalog from a question list.
func NewCatalog(version string, questions []Question) *Catalog {
	c := &Catalog{
		version:   version,
		questions: make([]Question, len(questions)),
		byID:      make(map[int]Question, len(questions)),
	}
	copy(c.questions, questions)
	for _, q := range c.questions {
		c.byID[q.ID] = q
	}
	return c
}

// Version returns the catalog version string.
func (c *Catalog) Version() string { return c.version }

// Questions returns a copy of the question list in catalog order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Lookup returns the question with the given id.
func (c *Catalog) Lookup(id int) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int { return len(c.questions) }

// defaultCatalogVersion identifies the standard 22-item human services survey.
const defaultCatalogVersion = "mbi-hss-22"

// DefaultCatalog returns the standard 22-item MBI question set.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultCatalogVersion, []Question{
		{ID: 1, Text: "I feel emotionally drained from my work.", Category: EmotionalExhaustion},
		{ID: 2, Text: "I feel used up at the end of the workday.", Category: EmotionalExhaustion},
		{ID: 3, Text: "I feel fatigued when I get up in the morning and have to face another day on the job.", Category: EmotionalExhaustion},
		{ID: 4, Text: "I can easily understand how my patients feel about things.", Category: PersonalAccomplishment},
		{ID: 5, Text: "I feel I treat some patients as if they were impersonal objects.", Category: Depersonalization},
		{ID: 6, Text: "Working with people all day is really a strain for me.", Category: EmotionalExhaustion},
		{ID: 7, Text: "I deal very effectively with the problems of my patients.", Category: PersonalAccomplishment},
		{ID: 8, Text: "I feel burned out from my work.", Category: EmotionalExhaustion},
		{ID: 9, Text: "I feel I'm positively influencing other people's lives through my work.", Category: PersonalAccomplishment},
		{ID: 10, Text: "I've become more callous toward people since I took this job.", Category: Depersonalization},
		{ID: 11, Text: "I worry that this job is hardening me emotionally.", Category: Depersonalization},
		{ID: 12, Text: "I feel very energetic.", Category: PersonalAccomplishment},
		{ID: 13, Text: "I feel frustrated by my job.", Category: EmotionalExhaustion},
		{ID: 14, Text: "I feel I'm working too hard on my job.", Category: EmotionalExhaustion},
		{ID: 15, Text: "I don't really care what happens to some of my patients.", Category: Depersonalization},
		{ID: 16, Text: "Working with people directly puts too much stress on me.", Category: EmotionalExhaustion},
		{ID: 17, Text: "I can easily create a relaxed atmosphere with my patients.", Category: PersonalAccomplishment},
		{ID: 18, Text: "I feel exhilarated after working closely with my patients.", Category: PersonalAccomplishment},
		{ID: 19, Text: "I have accomplished many worthwhile things in this job.", Category: PersonalAccomplishment},
		{ID: 20, Text: "I feel like I'm at the end of my rope.", Category: EmotionalExhaustion},
		{ID: 21, Text: "In my work, I deal with emotional problems very calmly.", Category: PersonalAccomplishment},
		{ID: 22, Text: "I feel patients blame me for some of their problems.", Category: Depersonalization},
	})
}
