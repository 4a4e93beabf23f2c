package compressor

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type gzipWriter struct {
	gin.ResponseWriter
	gz     *gzip.Writer
	active bool
}

// Write сжимает только JSON-ответы; остальное уходит как есть
func (w *gzipWriter) Write(b []byte) (int, error) {
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		if !w.active {
			w.Header().Set("Content-Encoding", "gzip")
			w.active = true
		}
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *gzipWriter) close() error {
	if w.active {
		return w.gz.Close()
	}
	return nil
}

// Compresser распаковывает gzip-тела запросов и сжимает JSON-ответы,
// когда клиент прислал Accept-Encoding: gzip
func Compresser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.Contains(strings.ToLower(c.Request.Header.Get("Content-Encoding")), "gzip") {
			reader, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "Не удалось распаковать данные"})
				return
			}
			c.Request.Body = reader
			defer reader.Close()
		}

		if strings.Contains(strings.ToLower(c.Request.Header.Get("Accept-Encoding")), "gzip") {
			gw := &gzipWriter{
				ResponseWriter: c.Writer,
				gz:             gzip.NewWriter(c.Writer),
			}
			c.Writer = gw
			defer gw.close()
		}

		c.Next()
	}
}
