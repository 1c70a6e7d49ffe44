package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradeboard/dashboard"
)

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	Title string
	View  dashboard.View
}

func (s *Server) index(c *gin.Context) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, pageData{Title: "Trading Dashboard", View: s.dash.Snapshot()}); err != nil {
		s.log.Error("render index", zap.Error(err))
		fail(c, http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
