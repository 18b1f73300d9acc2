package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/deckstudio/internal/cards"
	"github.com/youruser/deckstudio/internal/deck"
	imagepkg "github.com/youruser/deckstudio/internal/image"
)

const apiTestCSV = `カードID,カード名,色,タイプ,コスト,カウンター,属性,特徴,ブロックアイコン,テキスト,トリガー,入手情報
LEAD-001,赤リーダー,赤,LEADER,-,-,-,超新星,1,-,-,【OP-01】パック
CARD-001,赤キャラ,赤,CHARACTER,3,1000,斬,超新星,1,テキスト,-,【OP-01】パック
CARD-002,緑キャラ,緑,CHARACTER,2,2000,打,超新星,1,テキスト,-,【OP-01】パック
`

type offlineArt struct{}

func (offlineArt) Fetch(context.Context, string) (image.Image, error) {
	return nil, errors.New("offline")
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "cardlist_filtered.csv"), []byte(apiTestCSV), 0o644))

	store, err := deck.NewStore(t.TempDir())
	require.NoError(t, err)

	composer := imagepkg.NewComposer(offlineArt{}, nil, 2, nil)
	srv := NewServer(cards.NewLoader(time.Hour), dataDir, store, composer, nil)

	r := gin.New()
	srv.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportDeck(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/deck/export", gin.H{
		"name":    "Test",
		"leader":  "LEAD-001",
		"entries": gin.H{"CARD-001": 4},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Text       string           `json:"text"`
		Violations []deck.Violation `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "# Test\n1xLEAD-001\n4xCARD-001", resp.Text)
	// 4 of 50 cards: undersized, advisory only
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, deck.ViolationUndersized, resp.Violations[0].Kind)
}

func TestImportDeck(t *testing.T) {
	r := newTestRouter(t)

	t.Run("valid text", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/deck/import", gin.H{
			"text": "# Imported\n1xLEAD-001\n4xCARD-001\n2xGONE-001",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Deck deck.Deck `json:"deck"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Imported", resp.Deck.Name)
		assert.Equal(t, "LEAD-001", resp.Deck.Leader)
		// unknown entry silently dropped
		assert.Equal(t, map[string]int{"CARD-001": 4}, resp.Deck.Entries)
	})

	t.Run("leader line without separator", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/deck/import", gin.H{"text": "# Test\nLEAD-001"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(deck.ErrLeaderLine), resp.Kind)
	})

	t.Run("unknown leader", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/deck/import", gin.H{"text": "1xNOPE-001"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestFilterEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/filter", gin.H{"leader_colors": []string{"赤"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cards []cards.Card `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, "CARD-001", resp.Cards[0].CardID)
}

func TestDeckImage(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/deck/image", gin.H{
		"name":    "Offline Deck",
		"leader":  "LEAD-001",
		"entries": gin.H{"CARD-001": 4},
	})
	// art host unreachable: image still renders
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestSavedDecks(t *testing.T) {
	r := newTestRouter(t)

	save := doJSON(t, r, http.MethodPost, "/api/decks/MyDeck", gin.H{
		"leader":  "LEAD-001",
		"entries": gin.H{"CARD-001": 4},
	})
	require.Equal(t, http.StatusOK, save.Code)

	list := doJSON(t, r, http.MethodGet, "/api/decks", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var listResp struct {
		Decks []string `json:"decks"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listResp))
	assert.Equal(t, []string{"MyDeck"}, listResp.Decks)

	load := doJSON(t, r, http.MethodGet, "/api/decks/MyDeck", nil)
	require.Equal(t, http.StatusOK, load.Code)
	var loadResp struct {
		Deck deck.Deck `json:"deck"`
	}
	require.NoError(t, json.Unmarshal(load.Body.Bytes(), &loadResp))
	assert.Equal(t, "MyDeck", loadResp.Deck.Name)
	assert.Equal(t, map[string]int{"CARD-001": 4}, loadResp.Deck.Entries)

	del := doJSON(t, r, http.MethodDelete, "/api/decks/MyDeck", nil)
	require.Equal(t, http.StatusOK, del.Code)

	missing := doJSON(t, r, http.MethodGet, "/api/decks/MyDeck", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestQRDecodeRequiresFile(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/qr/decode", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQRPNG(t *testing.T) {
	r := newTestRouter(t)

	t.Run("renders", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/qr?text=1xLEAD-001", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})

	t.Run("text required", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/qr", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
