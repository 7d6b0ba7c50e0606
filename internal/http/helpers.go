package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// MessageResponse is the error/confirmation payload shared by all endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// DeleteResponse confirms a removal together with the removed title.
type DeleteResponse struct {
	Message string `json:"message"`
	Title   string `json:"title"`
}

// ListResponse wraps the full book listing.
type ListResponse struct {
	Books any `json:"books"`
}

// --- Response Helpers ---

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}

// --- Parameter Parsing ---

// decodeTitleParam reads the title query parameter and percent-decodes it
// twice more on top of the query parsing. The legacy client over-encodes
// titles, so the double decode is kept for compatibility; a stored title
// containing a literal percent-encoded sequence cannot be addressed through
// the endpoints that use this helper.
func decodeTitleParam(c *gin.Context) (string, bool) {
	title := c.Query("title")
	if title == "" {
		respondMessage(c, http.StatusBadRequest, "title is required")
		return "", false
	}
	for i := 0; i < 2; i++ {
		decoded, err := url.PathUnescape(title)
		if err != nil {
			break
		}
		title = decoded
	}
	return title, true
}
