package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resource скачанный ресурс с подобранным именем файла
type Resource struct {
	Data     []byte
	Filename string
}

// Fetcher скачивает ресурсы по HTTP с ограничением по времени и размеру
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

func New(timeout time.Duration, maxSize int64) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		maxSize: maxSize,
	}
}

// Fetch выполняет один GET-запрос: без повторов, любая ошибка сети,
// таймаут или не-2xx статус означают отказ по этому URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("некорректный URL: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка скачивания: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("неожиданный статус ответа: %d", resp.StatusCode)
	}

	if resp.ContentLength > f.maxSize {
		return nil, fmt.Errorf("ресурс слишком большой: %d байт при лимите %d", resp.ContentLength, f.maxSize)
	}

	// Читаем на байт больше лимита: усеченный файл нельзя выдавать за целый
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("ресурс превышает лимит %d байт", f.maxSize)
	}

	return &Resource{
		Data:     data,
		Filename: inferFilename(rawURL, resp.Header),
	}, nil
}

// Расширение по Content-Type, когда имя не удалось вывести иначе
var extByContentType = map[string]string{
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"application/pdf":  ".pdf",
	"text/plain":       ".txt",
	"text/html":        ".html",
	"application/json": ".json",
}

// inferFilename подбирает имя файла: сначала заголовок Content-Disposition,
// затем последний сегмент пути URL, затем расширение по Content-Type
// со сгенерированным именем.
func inferFilename(rawURL string, header http.Header) string {
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		if p, err := url.PathUnescape(u.Path); err == nil {
			name := path.Base(p)
			if name != "." && name != "/" && strings.Contains(name, ".") {
				return name
			}
		}
	}

	ct := header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	ext, ok := extByContentType[strings.TrimSpace(ct)]
	if !ok {
		ext = ".bin"
	}

	return "file_" + uuid.New().String()[:8] + ext
}
