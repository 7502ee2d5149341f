package services

import (
	"context"
	"sort"
	"unicode/utf8"

	"mark2cure/models"

	"gorm.io/gorm"
)

type PassageSection struct {
	PK   uint   `json:"pk"`
	Kind string `json:"kind"`
}

type Passage struct {
	Section     PassageSection              `json:"section"`
	Text        string                      `json:"text"`
	Offset      int                         `json:"offset"`
	Annotations []models.PubtatorAnnotation `json:"annotations"`
}

// DocumentJSON is the generic document structure sent to annotators.
type DocumentJSON struct {
	PK         uint      `json:"pk"`
	DocumentID int       `json:"document_id"`
	Title      string    `json:"title"`
	Passages   []Passage `json:"passages"`
}

type Documents struct {
	db *gorm.DB
}

func NewDocuments(db *gorm.DB) *Documents {
	return &Documents{db: db}
}

// Get renders one document without annotations.
func (d *Documents) Get(ctx context.Context, pk uint) (*DocumentJSON, error) {
	docs, err := d.AsJSON(ctx, []uint{pk}, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, wrap("get document", models.ErrNotFound)
	}
	return &docs[0], nil
}

// AsJSON renders the documents in ascending pk order. pubtators maps a
// document pk to the pubtator rows whose annotations should be attached to
// its passages; documents without an entry carry no annotations.
func (d *Documents) AsJSON(ctx context.Context, pks []uint, pubtators map[uint][]uint) ([]DocumentJSON, error) {
	if len(pks) == 0 {
		return []DocumentJSON{}, nil
	}

	var docs []models.Document
	err := d.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id IN ?", pks).
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, wrap("load documents", err)
	}

	anns, err := d.pubtatorAnnotations(ctx, pubtators)
	if err != nil {
		return nil, err
	}

	out := make([]DocumentJSON, 0, len(docs))
	for _, doc := range docs {
		out = append(out, render(doc, anns[doc.ID]))
	}
	return out, nil
}

func (d *Documents) pubtatorAnnotations(ctx context.Context, pubtators map[uint][]uint) (map[uint][]models.PubtatorAnnotation, error) {
	var ids []uint
	for _, pubIDs := range pubtators {
		ids = append(ids, pubIDs...)
	}
	res := make(map[uint][]models.PubtatorAnnotation)
	if len(ids) == 0 {
		return res, nil
	}

	var rows []models.Pubtator
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, wrap("load pubtators", err)
	}
	for i := range rows {
		anns, err := rows[i].Annotations()
		if err != nil {
			return nil, err
		}
		res[rows[i].DocumentID] = append(res[rows[i].DocumentID], anns...)
	}
	for docID := range res {
		sort.SliceStable(res[docID], func(a, b int) bool { return res[docID][a].Start < res[docID][b].Start })
	}
	return res, nil
}

// render lays the sections out as consecutive passages separated by one
// character and places each annotation in the passage containing its start.
// Offsets count characters, not bytes.
func render(doc models.Document, anns []models.PubtatorAnnotation) DocumentJSON {
	out := DocumentJSON{
		PK:         doc.ID,
		DocumentID: doc.DocumentID,
		Title:      doc.Title,
		Passages:   make([]Passage, 0, len(doc.Sections)),
	}

	offset := 0
	for _, sec := range doc.Sections {
		p := Passage{
			Section:     PassageSection{PK: sec.ID, Kind: sec.Kind},
			Text:        sec.Text,
			Offset:      offset,
			Annotations: []models.PubtatorAnnotation{},
		}
		end := offset + utf8.RuneCountInString(sec.Text)
		for _, a := range anns {
			if a.Start >= offset && a.Start < end {
				p.Annotations = append(p.Annotations, a)
			}
		}
		out.Passages = append(out.Passages, p)
		offset = end + 1
	}
	return out
}

// ByPMID looks a document up by its PubMed id.
func (d *Documents) ByPMID(ctx context.Context, pmid int) (*models.Document, error) {
	var doc models.Document
	if err := d.db.WithContext(ctx).Where("document_id = ?", pmid).First(&doc).Error; err != nil {
		return nil, wrap("document by pmid", err)
	}
	return &doc, nil
}

// CompletedBy reports whether the user has a completed view on any section
// of the document.
func (d *Documents) CompletedBy(ctx context.Context, docPK, userID uint) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.View{}).
		Joins("JOIN sections ON sections.id = views.section_id").
		Where("sections.document_id = ? AND views.user_id = ? AND views.completed = ?", docPK, userID, true).
		Count(&n).Error
	if err != nil {
		return false, wrap("document completion", err)
	}
	return n > 0, nil
}
