package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Popolzen/ossconvert/internal/config"
	"github.com/Popolzen/ossconvert/internal/model"
	"github.com/Popolzen/ossconvert/internal/service/convert"
)

// ConvertURLHandler принимает текст и запускает задачу конвертации ссылок
func ConvertURLHandler(svc *convert.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ConvertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "Нужен текст для конвертации"})
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "Текст не может быть пустым"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"code": 200, "data": svc.Submit(req.Text)})
	}
}

// ProgressHandler отдает текущее состояние задачи по её id
func ProgressHandler(svc *convert.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := svc.Progress(c.Param("task_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "Задача не найдена"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"code": 200, "data": task})
	}
}

// UploadFileHandler загружает файл из формы напрямую в хранилище
func UploadFileHandler(svc *convert.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxUploadSize)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"code": 400, "msg": "Файл слишком большой"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "Файл не выбран"})
			return
		}

		if fileHeader.Filename == "" {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "Файл не выбран"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "Не удалось прочитать файл"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "Не удалось прочитать файл"})
			return
		}

		result, err := svc.Upload(c.Request.Context(), data, fileHeader.Filename)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
			"url":        result.URL,
			"filename":   fileHeader.Filename,
			"object_key": result.ObjectKey,
		}})
	}
}

// StoragePinger проверка доступности хранилища
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// PingHandler проверяет соединение с объектным хранилищем
func PingHandler(pinger StoragePinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	}
}
