package service

import (
	"log"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"

	"anoa.com/schoolhub/internal/model"
)

const studentIndexName = "students"

// StudentIndex is the optional name-search collaborator. Indexing is
// best-effort: a failed write is logged, never surfaced to the caller.
type StudentIndex interface {
	IndexStudent(student *model.Student)
	RemoveStudent(id string)
	// SearchStudentIDs returns (nil, nil) when the index is not configured,
	// which callers treat as "no search prefilter".
	SearchStudentIDs(query string, limit int) ([]uuid.UUID, error)
}

type meiliStudentIndex struct {
	client meilisearch.ServiceManager
}

type studentDocument struct {
	ID          string `json:"id"`
	StudentName string `json:"studentName"`
}

// NewStudentIndex wraps a Meilisearch client; a nil client yields a no-op
// index so the API works without a search backend.
func NewStudentIndex(client meilisearch.ServiceManager) StudentIndex {
	idx := &meiliStudentIndex{client: client}
	if client != nil {
		if _, err := client.Index(studentIndexName).UpdateSearchableAttributes(&[]string{"studentName"}); err != nil {
			log.Printf("failed to configure student index: %v", err)
		}
	}
	return idx
}

func (s *meiliStudentIndex) IndexStudent(student *model.Student) {
	if s.client == nil || student == nil {
		return
	}
	doc := studentDocument{ID: student.ID.String(), StudentName: student.Name}
	if _, err := s.client.Index(studentIndexName).AddDocuments([]studentDocument{doc}, strPtr("id")); err != nil {
		log.Printf("failed to index student %s: %v", doc.ID, err)
	}
}

func (s *meiliStudentIndex) RemoveStudent(id string) {
	if s.client == nil {
		return
	}
	if _, err := s.client.Index(studentIndexName).DeleteDocument(id); err != nil {
		log.Printf("failed to remove student %s from index: %v", id, err)
	}
}

func (s *meiliStudentIndex) SearchStudentIDs(query string, limit int) ([]uuid.UUID, error) {
	if s.client == nil {
		return nil, nil
	}

	res, err := s.client.Index(studentIndexName).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		var doc studentDocument
		if err := hit.Decode(&doc); err != nil {
			continue
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
