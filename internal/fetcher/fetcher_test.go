package fetcher

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxSize = 10 << 20

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file content"))
	}))
	defer server.Close()

	f := New(5*time.Second, testMaxSize)
	res, err := f.Fetch(context.Background(), server.URL+"/files/report.pdf")

	require.NoError(t, err)
	assert.Equal(t, []byte("file content"), res.Data)
	assert.Equal(t, "report.pdf", res.Filename)
}

func TestFetch_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := New(5*time.Second, testMaxSize)
	res, err := f.Fetch(context.Background(), server.URL+"/empty.txt")

	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, "empty.txt", res.Filename)
}

func TestFetch_NonOKStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "Не найдено", status: http.StatusNotFound},
		{name: "Ошибка сервера", status: http.StatusInternalServerError},
		{name: "Редирект без Location не проходит", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			f := New(5*time.Second, testMaxSize)
			_, err := f.Fetch(context.Background(), server.URL)

			assert.Error(t, err)
		})
	}
}

func TestFetch_OverSizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flush переводит ответ в chunked: длина заранее неизвестна,
		// и лимит проверяется по фактически прочитанным байтам
		w.Write(bytes.Repeat([]byte("a"), 512))
		w.(http.Flusher).Flush()
		w.Write(bytes.Repeat([]byte("a"), 512))
	}))
	defer server.Close()

	f := New(5*time.Second, 64)
	_, err := f.Fetch(context.Background(), server.URL+"/big.bin")

	// Усеченный файл не должен выдаваться за успешно скачанный
	require.Error(t, err)
	assert.Contains(t, err.Error(), "превышает лимит")
}

func TestFetch_OverSizeLimitByContentLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1024")
		w.Write(bytes.Repeat([]byte("a"), 1024))
	}))
	defer server.Close()

	f := New(5*time.Second, 64)
	_, err := f.Fetch(context.Background(), server.URL+"/big.bin")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "слишком большой")
}

func TestFetch_ExactlyAtLimit(t *testing.T) {
	body := bytes.Repeat([]byte("a"), 64)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	f := New(5*time.Second, 64)
	res, err := f.Fetch(context.Background(), server.URL+"/fits.bin")

	require.NoError(t, err)
	assert.Equal(t, body, res.Data)
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("too late"))
	}))
	defer server.Close()

	f := New(50*time.Millisecond, testMaxSize)
	_, err := f.Fetch(context.Background(), server.URL)

	assert.Error(t, err)
}

func TestFetch_InvalidURL(t *testing.T) {
	f := New(time.Second, testMaxSize)
	_, err := f.Fetch(context.Background(), "http://\x00invalid")

	assert.Error(t, err)
}

func TestInferFilename(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		headers map[string]string
		want    string
	}{
		{
			name:    "Content-Disposition приоритетнее пути",
			url:     "http://a.com/path/other.bin",
			headers: map[string]string{"Content-Disposition": `attachment; filename="doc.pdf"`},
			want:    "doc.pdf",
		},
		{
			name: "Имя из последнего сегмента пути",
			url:  "http://a.com/files/photo.jpg",
			want: "photo.jpg",
		},
		{
			name: "Percent-encoding в пути декодируется",
			url:  "http://a.com/files/my%20file.png",
			want: "my file.png",
		},
		{
			name: "Сегмент без точки не считается именем",
			url:  "http://a.com/download",
			headers: map[string]string{
				"Content-Type": "image/png",
			},
			want: ".png", // проверяем только расширение
		},
		{
			name: "Неизвестный Content-Type дает .bin",
			url:  "http://a.com/stream",
			headers: map[string]string{
				"Content-Type": "application/octet-stream",
			},
			want: ".bin",
		},
		{
			name: "Content-Type с charset",
			url:  "http://a.com/page",
			headers: map[string]string{
				"Content-Type": "text/html; charset=utf-8",
			},
			want: ".html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tt.headers {
				header.Set(k, v)
			}

			got := inferFilename(tt.url, header)

			if strings.HasPrefix(tt.want, ".") {
				// Сгенерированное имя: стем уникален, важно расширение
				assert.True(t, strings.HasPrefix(got, "file_"), "имя должно начинаться с file_: %s", got)
				assert.True(t, strings.HasSuffix(got, tt.want), "ожидали расширение %s, получили %s", tt.want, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestInferFilename_GeneratedStemsUnique(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "image/jpeg")

	first := inferFilename("http://a.com/x", header)
	second := inferFilename("http://a.com/x", header)

	assert.NotEqual(t, first, second)
}
