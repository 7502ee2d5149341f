package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	SectionTitle    = "t"
	SectionAbstract = "a"
)

const (
	PubtatorDisease  = "Disease"
	PubtatorGene     = "Gene"
	PubtatorChemical = "Chemical"
)

// Document is a PubMed abstract. DocumentID holds the PMID.
type Document struct {
	ID         uint       `gorm:"primaryKey" json:"pk"`
	CreatedAt  time.Time  `json:"created"`
	DocumentID int        `gorm:"uniqueIndex;not null" json:"document_id"`
	Title      string     `gorm:"type:text;not null" json:"title"`
	Source     string     `gorm:"size:200" json:"source"`
	Sections   []Section  `gorm:"foreignKey:DocumentID" json:"-"`
	Pubtators  []Pubtator `gorm:"foreignKey:DocumentID" json:"-"`
}

type Section struct {
	ID         uint   `gorm:"primaryKey" json:"pk"`
	DocumentID uint   `gorm:"not null;index" json:"-"`
	Kind       string `gorm:"not null;size:1" json:"kind"`
	Text       string `gorm:"type:text" json:"text"`
}

// Pubtator holds machine annotations of one concept kind for a document.
// Content is a JSON array of PubtatorAnnotation.
type Pubtator struct {
	ID         uint   `gorm:"primaryKey" json:"pk"`
	DocumentID uint   `gorm:"not null;index" json:"-"`
	Kind       string `gorm:"not null;size:20" json:"kind"`
	Content    string `gorm:"type:text" json:"-"`
}

// PubtatorAnnotation is a concept mention. Start is relative to the document
// text where the abstract follows the title and a single space.
type PubtatorAnnotation struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Start  int    `json:"start"`
	Length int    `json:"length"`
	UID    string `json:"uid,omitempty"`
}

func (p *Pubtator) Annotations() ([]PubtatorAnnotation, error) {
	if p.Content == "" {
		return nil, nil
	}
	var anns []PubtatorAnnotation
	if err := json.Unmarshal([]byte(p.Content), &anns); err != nil {
		return nil, fmt.Errorf("decode pubtator %d: %w", p.ID, err)
	}
	return anns, nil
}
