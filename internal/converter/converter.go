package converter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Popolzen/ossconvert/internal/fetcher"
	"github.com/Popolzen/ossconvert/internal/model"
	"github.com/Popolzen/ossconvert/internal/storage"
)

// DefaultConcurrency предел одновременных скачиваний по умолчанию
const DefaultConcurrency = 5

// Downloader скачивает ресурс по URL
type Downloader interface {
	Fetch(ctx context.Context, url string) (*fetcher.Resource, error)
}

// Converter переносит ресурсы из внешних URL в объектное хранилище
type Converter struct {
	fetcher     Downloader
	storage     storage.ObjectStorage
	concurrency int
}

func New(f Downloader, s storage.ObjectStorage, concurrency int) *Converter {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Converter{
		fetcher:     f,
		storage:     s,
		concurrency: concurrency,
	}
}

// ConvertOne обрабатывает один URL: уже лежащие в хранилище пропускает
// без сетевых вызовов, остальные скачивает и загружает. Одна попытка
// скачивания и одна попытка загрузки, без повторов.
func (c *Converter) ConvertOne(ctx context.Context, rawURL string) model.Outcome {
	// Пустой endpoint содержится в любой строке и пропустил бы все URL подряд
	if endpoint := c.storage.Endpoint(); endpoint != "" && strings.Contains(rawURL, endpoint) {
		return model.Outcome{Status: model.StatusSkipped, StorageURL: rawURL}
	}

	res, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return model.Outcome{Status: model.StatusFailed, StorageURL: rawURL, Error: err.Error()}
	}

	uploaded, err := c.storage.Upload(ctx, res.Data, res.Filename)
	if err != nil {
		return model.Outcome{Status: model.StatusFailed, StorageURL: rawURL, Error: err.Error()}
	}

	return model.Outcome{Status: model.StatusSuccess, StorageURL: uploaded.URL}
}

// ConvertAll обрабатывает список URL пулом воркеров и отдает результаты
// в канал по мере готовности. Порядок результатов не связан с порядком
// входного списка. Канал закрывается после последнего результата,
// повторный запуск той же последовательности невозможен.
func (c *Converter) ConvertAll(ctx context.Context, urls []string) <-chan model.Result {
	results := make(chan model.Result)
	jobs := make(chan string)

	workers := c.concurrency
	if len(urls) < workers {
		workers = len(urls)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				results <- model.Result{OriginalURL: u, Outcome: c.safeConvert(ctx, u)}
			}
		}()
	}

	go func() {
		for _, u := range urls {
			jobs <- u
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// safeConvert переводит панику воркера в failed-результат: сбой на одном
// URL не должен останавливать обработку остальных
func (c *Converter) safeConvert(ctx context.Context, rawURL string) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = model.Outcome{
				Status:     model.StatusFailed,
				StorageURL: rawURL,
				Error:      fmt.Sprintf("внутренняя ошибка воркера: %v", r),
			}
		}
	}()
	return c.ConvertOne(ctx, rawURL)
}
