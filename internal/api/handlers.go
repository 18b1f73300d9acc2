package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/deckstudio/internal/cards"
	"github.com/youruser/deckstudio/internal/deck"
	imagepkg "github.com/youruser/deckstudio/internal/image"
)

// Server holds the handlers' collaborators. The catalog is re-read through
// the loader on each request; its TTL cache makes that cheap.
type Server struct {
	loader   *cards.Loader
	dataDir  string
	store    *deck.Store
	composer *imagepkg.Composer
	log      *zap.Logger
}

func NewServer(loader *cards.Loader, dataDir string, store *deck.Store, composer *imagepkg.Composer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{loader: loader, dataDir: dataDir, store: store, composer: composer, log: log}
}

func (s *Server) catalog(c *gin.Context) (*cards.Catalog, bool) {
	cs, err := s.loader.Load(s.dataDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return cards.NewCatalog(cs), true
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listCards(c *gin.Context) {
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	out := append([]cards.Card(nil), ct.Cards...)
	cards.ByListing(out)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "cards": out})
}

func (s *Server) listLeaders(c *gin.Context) {
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	leaders := ct.Leaders()
	c.JSON(http.StatusOK, gin.H{"count": len(leaders), "cards": leaders})
}

func (s *Server) facets(c *gin.Context) {
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ct.Facets())
}

func (s *Server) filter(c *gin.Context) {
	var opt cards.FilterOptions
	if err := c.BindJSON(&opt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	out := cards.Filter(ct.Cards, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "cards": out})
}

type deckRequest struct {
	Name    string         `json:"name"`
	Leader  string         `json:"leader"`
	Entries map[string]int `json:"entries"`
}

func (r deckRequest) deck() deck.Deck {
	d := deck.New(r.Leader)
	d.Name = r.Name
	for id, n := range r.Entries {
		d.Entries[id] = n
	}
	return d
}

// exportDeck serializes a deck to the interchange text. Rule violations ride
// along as advisory status and never block the export.
func (s *Server) exportDeck(c *gin.Context) {
	var req deckRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	d := req.deck()
	c.JSON(http.StatusOK, gin.H{
		"text":       deck.Serialize(d, ct),
		"violations": deck.Validate(d),
	})
}

func (s *Server) importDeck(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	s.respondParsed(c, ct, req.Text)
}

// respondParsed maps codec structural errors to 422 with their kind; the
// caller's deck state is theirs to keep on failure.
func (s *Server) respondParsed(c *gin.Context, ct *cards.Catalog, text string) {
	d, err := deck.Parse(text, ct)
	if err != nil {
		var perr *deck.ParseError
		if errors.As(err, &perr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": perr.Reason, "kind": string(perr.Kind)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deck":       d,
		"violations": deck.Validate(d),
	})
}

func (s *Server) validateDeck(c *gin.Context) {
	var req deckRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"violations": deck.Validate(req.deck())})
}

func (s *Server) deckImage(c *gin.Context) {
	var req deckRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	b, err := s.composer.RenderPNG(c.Request.Context(), req.deck(), ct)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// qrPNG returns a QR bitmap for arbitrary text, mostly for manual checks.
func (s *Server) qrPNG(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text query parameter required"})
		return
	}
	size := 400
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// qrDecode reads a deck out of an uploaded QR photo. "No QR found" is a 404
// distinct from a 422 on a bad payload.
func (s *Server) qrDecode(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()
	b, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text, err := imagepkg.DecodeQRBytes(b)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no QR code detected", "kind": "qr_not_found"})
		return
	}
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	s.respondParsed(c, ct, text)
}

func (s *Server) listDecks(c *gin.Context) {
	names, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decks": names})
}

// saveDeck writes the codec text for the posted deck under its name.
func (s *Server) saveDeck(c *gin.Context) {
	var req deckRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := c.Param("name")
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	d := req.deck()
	d.Name = name
	if err := s.store.Save(name, deck.Serialize(d, ct)); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, deck.ErrBadDeckName) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": name, "violations": deck.Validate(d)})
}

func (s *Server) loadDeck(c *gin.Context) {
	name := c.Param("name")
	text, err := s.store.Load(name)
	if err != nil {
		status := http.StatusInternalServerError
		if os.IsNotExist(err) {
			status = http.StatusNotFound
		} else if errors.Is(err, deck.ErrBadDeckName) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ct, ok := s.catalog(c)
	if !ok {
		return
	}
	s.respondParsed(c, ct, text)
}

func (s *Server) deleteDeck(c *gin.Context) {
	name := c.Param("name")
	if err := s.store.Delete(name); err != nil {
		status := http.StatusInternalServerError
		if os.IsNotExist(err) {
			status = http.StatusNotFound
		} else if errors.Is(err, deck.ErrBadDeckName) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}
