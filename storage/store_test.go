package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raine/catalog-vision/catalog"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndRecent(t *testing.T) {
	store := newTestStore(t)

	record := &Record{
		ProductID:  "p1",
		ContentKey: "abc123",
		Result: catalog.AIAnalysisResult{
			ProductType:    "sofa",
			SceneTypes:     []catalog.SceneType{catalog.SceneLivingRoom},
			ColorSchemes:   []catalog.ColorScheme{{Name: "Primary", Colors: []string{"#8B4513"}}},
			Materials:      []catalog.Material{catalog.MaterialFabric},
			Size:           catalog.SizeInfo{Type: catalog.SizeLarge},
			Styles:         []catalog.Style{catalog.StyleModern},
			Confidence:     0.85,
			AnalysisMethod: catalog.MethodAI,
		},
	}
	require.NoError(t, store.Save(record))
	assert.NotZero(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())

	records, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, "p1", got.ProductID)
	assert.Equal(t, "abc123", got.ContentKey)
	assert.Equal(t, record.Result, got.Result)
}

func TestRecentOrderAndLimit(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, store.Save(&Record{
			ProductID: id,
			Result: catalog.AIAnalysisResult{
				ProductType:    "table",
				SceneTypes:     []catalog.SceneType{catalog.SceneDiningRoom},
				Confidence:     0.5,
				AnalysisMethod: catalog.MethodFallback,
			},
		}))
	}

	records, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p3", records[0].ProductID)
	assert.Equal(t, "p2", records[1].ProductID)
}

func TestRecentEmpty(t *testing.T) {
	store := newTestStore(t)
	records, err := store.Recent(5)
	require.NoError(t, err)
	assert.Empty(t, records)
}
