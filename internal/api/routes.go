package api

import "github.com/gin-gonic/gin"

func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)

		api.GET("/cards", s.listCards)
		api.GET("/cards/leaders", s.listLeaders)
		api.GET("/cards/facets", s.facets)
		api.POST("/filter", s.filter)

		api.POST("/deck/export", s.exportDeck)
		api.POST("/deck/import", s.importDeck)
		api.POST("/deck/validate", s.validateDeck)
		api.POST("/deck/image", s.deckImage)

		api.GET("/qr", s.qrPNG)
		api.POST("/qr/decode", s.qrDecode)

		api.GET("/decks", s.listDecks)
		api.POST("/decks/:name", s.saveDeck)
		api.GET("/decks/:name", s.loadDeck)
		api.DELETE("/decks/:name", s.deleteDeck)
	}
}
