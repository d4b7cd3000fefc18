// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/poiesic/qasearch/core"
)

const idSize = 8

// MarshalID serializes an ID to 8 big-endian bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, idSize)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	if len(data) < idSize {
		return 0, fmt.Errorf("%w: id needs %d bytes, got %d", ErrTruncatedData, idSize, len(data))
	}
	return core.ID(binary.BigEndian.Uint64(data)), nil
}

// documentRecord is the stored form of a core.Document.
type documentRecord struct {
	Id          uint64   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SubjectId   *uint64  `json:"subject_id,omitempty"`
	UserId      *uint64  `json:"user_id,omitempty"`
	Upvotes     int      `json:"upvotes"`
	Views       int      `json:"views"`
	AnswerCount int      `json:"answer_count"`
	Solved      bool     `json:"solved"`
	CreatedAt   int64    `json:"created_at"` // Unix micro
	UpdatedAt   int64    `json:"updated_at"` // Unix micro
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) ([]byte, error) {
	rec := documentRecord{
		Id:          uint64(doc.Id),
		Title:       doc.Title,
		Content:     doc.Content,
		Tags:        doc.Tags,
		SubjectId:   optionalID(doc.SubjectId),
		UserId:      optionalID(doc.UserId),
		Upvotes:     doc.Upvotes,
		Views:       doc.Views,
		AnswerCount: doc.AnswerCount,
		Solved:      doc.Solved,
		CreatedAt:   doc.CreatedAt.UnixMicro(),
		UpdatedAt:   doc.UpdatedAt.UnixMicro(),
	}
	data, err := json.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	var rec documentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &core.Document{
		Id:          core.ID(rec.Id),
		Title:       rec.Title,
		Content:     rec.Content,
		Tags:        rec.Tags,
		SubjectId:   coreID(rec.SubjectId),
		UserId:      coreID(rec.UserId),
		Upvotes:     rec.Upvotes,
		Views:       rec.Views,
		AnswerCount: rec.AnswerCount,
		Solved:      rec.Solved,
		CreatedAt:   time.UnixMicro(rec.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMicro(rec.UpdatedAt).UTC(),
	}, nil
}

func optionalID(id *core.ID) *uint64 {
	if id == nil {
		return nil
	}
	v := uint64(*id)
	return &v
}

func coreID(v *uint64) *core.ID {
	if v == nil {
		return nil
	}
	return core.IDPtr(core.ID(*v))
}
