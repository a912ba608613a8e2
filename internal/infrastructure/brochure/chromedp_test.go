package brochure

import (
	"context"
	"testing"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCompleteDocument(t *testing.T) {
	t.Run("wraps fragments", func(t *testing.T) {
		doc := completeDocument("Satılık <Daire>", "<h1>İlan</h1>")
		assert.Contains(t, doc, "<!DOCTYPE html>")
		assert.Contains(t, doc, `<meta charset="UTF-8">`)
		assert.Contains(t, doc, "<title>Satılık &lt;Daire&gt;</title>")
		assert.Contains(t, doc, "<body><h1>İlan</h1></body>")
	})

	t.Run("keeps complete documents", func(t *testing.T) {
		in := "<!DOCTYPE html><html><body>x</body></html>"
		assert.Equal(t, in, completeDocument("t", in))
	})

	t.Run("omits empty title", func(t *testing.T) {
		assert.NotContains(t, completeDocument("", "<p>x</p>"), "<title>")
	})
}

func TestNewChromedpRenderer_Timeout(t *testing.T) {
	r := NewChromedpRenderer(config.BrochureConfig{Enabled: true}, nil)
	defer r.Close()
	assert.Equal(t, defaultTimeout, r.timeout)

	r2 := NewChromedpRenderer(config.BrochureConfig{Enabled: true, Timeout: 5 * time.Second, RemoteURL: "ws://127.0.0.1:9222"}, zap.NewNop())
	defer r2.Close()
	assert.Equal(t, 5*time.Second, r2.timeout)
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(config.BrochureConfig{Enabled: true}, zap.NewNop())
	defer r.Close()

	_, err := r.RenderPDF(context.Background(), "x", "   ")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewRenderer(t *testing.T) {
	r := NewRenderer(config.BrochureConfig{}, zap.NewNop())
	_, err := r.RenderPDF(context.Background(), "x", "<p>x</p>")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRendererDisabled)

	enabled := NewRenderer(config.BrochureConfig{Enabled: true}, zap.NewNop())
	assert.IsType(t, &ChromedpRenderer{}, enabled)
	_ = enabled.(*ChromedpRenderer).Close()
}
