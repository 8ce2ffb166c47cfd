package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfware/shelf-admin/internal/models"
)

func TestReconcile_DocumentWins(t *testing.T) {
	doc := map[string]any{
		"publisher": "Acme Press",
		"title":     "Algebra 101",
		"status":    "published",
	}
	fallback := models.ItemRecord{Publisher: "Old Press", Name: "Old Name", Language: "en"}

	meta := Reconcile(doc, fallback)

	assert.Equal(t, "Acme Press", meta.Publisher)
	assert.Equal(t, "Algebra 101", meta.Name)
	assert.Equal(t, "published", meta.Status)
	// No document alias matched: fallback serves the field whole.
	assert.Equal(t, "en", meta.Language)
}

func TestReconcile_AliasPriority(t *testing.T) {
	doc := map[string]any{
		"name":  "Primary",
		"title": "Secondary",
	}
	meta := Reconcile(doc, models.ItemRecord{})
	assert.Equal(t, "Primary", meta.Name)
}

func TestReconcile_EmptyAndWhitespaceSkipped(t *testing.T) {
	doc := map[string]any{
		"name":  "   ",
		"title": "Real Title",
	}
	meta := Reconcile(doc, models.ItemRecord{})
	assert.Equal(t, "Real Title", meta.Name)
}

func TestReconcile_NonStringSkipped(t *testing.T) {
	doc := map[string]any{
		"version": 3,
		"rev":     "3.1",
	}
	meta := Reconcile(doc, models.ItemRecord{})
	assert.Equal(t, "3.1", meta.Version)
}

func TestReconcile_TrimsDocumentValues(t *testing.T) {
	doc := map[string]any{"publisher": "  Acme Press  "}
	meta := Reconcile(doc, models.ItemRecord{})
	assert.Equal(t, "Acme Press", meta.Publisher)
}

func TestReconcile_NilDocumentFallbackOnly(t *testing.T) {
	fallback := models.ItemRecord{
		Publisher: "Acme Press",
		Name:      "Algebra 101",
		Version:   "2.0",
	}
	meta := Reconcile(nil, fallback)

	assert.Equal(t, "Acme Press", meta.Publisher)
	assert.Equal(t, "Algebra 101", meta.Name)
	assert.Equal(t, "2.0", meta.Version)
	assert.Empty(t, meta.Status)
}

func TestReconcile_AbsentEverywhere(t *testing.T) {
	meta := Reconcile(map[string]any{}, models.ItemRecord{})
	assert.Equal(t, Metadata{}, meta)
}

func TestReconcile_FieldsResolvedIndependently(t *testing.T) {
	// Version from the document, status from the fallback: sources mix
	// across fields but never within one.
	doc := map[string]any{"version": "5.0"}
	fallback := models.ItemRecord{Version: "4.0", Status: "draft"}

	meta := Reconcile(doc, fallback)
	assert.Equal(t, "5.0", meta.Version)
	assert.Equal(t, "draft", meta.Status)
}
