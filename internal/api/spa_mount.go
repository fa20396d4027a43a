package api

import (
	"embed"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsmirage/internal/api/models"
)

// Embedded UI assets.
//
// The web UI build output is copied into internal/api/dist/browser/ before
// compiling Go. The checked-in index.html is a placeholder that points at
// the API documentation.
//
//go:embed dist/browser/*
var embeddedUI embed.FS

func getEmbedFs() static.ServeFileSystem {
	fs, err := static.EmbedFolder(embeddedUI, "dist/browser")
	if err != nil {
		panic("failed to get embedded UI filesystem: " + err.Error())
	}
	return fs
}

// MountSPA serves the embedded UI and falls back to index.html for client
// side routes. Unknown /api paths still get a JSON 404.
func MountSPA(r *gin.Engine, logger *slog.Logger) {
	distFS := getEmbedFs()
	r.Use(static.Serve("/", distFS))

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
			return
		}
		index, err := distFS.Open("index.html")
		if err != nil {
			logger.Error("failed to open index.html", "err", err)
			c.Status(http.StatusNotFound)
			return
		}
		defer index.Close()
		stat, err := index.Stat()
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		http.ServeContent(c.Writer, c.Request, "index.html", stat.ModTime(), index)
	})
}
