package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/qasearch/core"
	"gopkg.in/yaml.v3"
)

// Corpus is the on-disk format of an importable question set.
type Corpus struct {
	Questions []Entry `yaml:"questions"`
}

// Entry is one question of a corpus.
type Entry struct {
	ID        uint64    `yaml:"id,omitempty"` // 0 lets storage assign one
	Title     string    `yaml:"title"`
	Content   string    `yaml:"content"`
	Tags      []string  `yaml:"tags"`
	Subject   string    `yaml:"subject"`
	Author    string    `yaml:"author"`
	Upvotes   int       `yaml:"upvotes"`
	Views     int       `yaml:"views"`
	Answers   int       `yaml:"answers"`
	Solved    bool      `yaml:"solved"`
	CreatedAt time.Time `yaml:"created_at"`
}

// LoadCorpus reads a corpus from a YAML file.
func LoadCorpus(path string) (*Corpus, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
	}
	defer f.Close()
	return ParseCorpus(f)
}

// ParseCorpus decodes a corpus from r. An empty input is an empty corpus.
func ParseCorpus(r io.Reader) (*Corpus, error) {
	var corpus Corpus
	if err := yaml.NewDecoder(r).Decode(&corpus); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
	}
	return &corpus, nil
}

// SubjectID maps a subject name to its ID. Names are compared case-insensitively.
func SubjectID(name string) *core.ID {
	return nameID("subject", name)
}

// AuthorID maps an author name to its ID. Names are compared case-insensitively.
func AuthorID(name string) *core.ID {
	return nameID("author", name)
}

func nameID(kind, name string) *core.ID {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	return core.IDPtr(core.IDFromContent(kind + ":" + name))
}

// Document converts the entry and validates the result.
func (e Entry) Document() (*core.Document, error) {
	doc := &core.Document{
		Id:          core.ID(e.ID),
		Title:       strings.TrimSpace(e.Title),
		Content:     strings.TrimSpace(e.Content),
		Tags:        e.Tags,
		SubjectId:   SubjectID(e.Subject),
		UserId:      AuthorID(e.Author),
		Upvotes:     e.Upvotes,
		Views:       e.Views,
		AnswerCount: e.Answers,
		Solved:      e.Solved,
		CreatedAt:   e.CreatedAt.UTC(),
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
