package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/poiesic/qasearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.Len(t, data, 8)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestMarshalID_SortsNumerically(t *testing.T) {
	// Big-endian keys keep index scans in ID order.
	assert.Less(t, string(MarshalID(255)), string(MarshalID(256)))
}

func TestUnmarshalID_Truncated(t *testing.T) {
	_, err := UnmarshalID([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, ErrTruncatedData))
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	created := time.Date(2025, 3, 14, 15, 9, 26, 535000, time.UTC)
	doc := &core.Document{
		Id:          7,
		Title:       "How do I close a channel?",
		Content:     "Is it safe to close from the receiver side?",
		Tags:        []string{"go", "channels", "go"},
		SubjectId:   core.IDPtr(3),
		Upvotes:     12,
		Views:       340,
		AnswerCount: 2,
		Solved:      true,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}

	data, err := MarshalDocument(doc)
	require.NoError(t, err)

	decoded, err := UnmarshalDocument(data)
	require.NoError(t, err)

	assert.Equal(t, doc.Id, decoded.Id)
	assert.Equal(t, doc.Title, decoded.Title)
	assert.Equal(t, doc.Content, decoded.Content)
	assert.Equal(t, doc.Tags, decoded.Tags)
	require.NotNil(t, decoded.SubjectId)
	assert.Equal(t, core.ID(3), *decoded.SubjectId)
	assert.Nil(t, decoded.UserId)
	assert.Equal(t, 12, decoded.Upvotes)
	assert.Equal(t, 340, decoded.Views)
	assert.Equal(t, 2, decoded.AnswerCount)
	assert.True(t, decoded.Solved)
	assert.True(t, created.Equal(decoded.CreatedAt))
	assert.True(t, doc.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	_, err := UnmarshalDocument([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSerializationFailed))
}
