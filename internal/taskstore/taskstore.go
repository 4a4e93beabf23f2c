package taskstore

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Popolzen/ossconvert/internal/model"
)

// Store хранит задачи конвертации в памяти на время жизни процесса.
// Вытеснения нет; TTL-политика сознательно не задана, завершенные
// задачи остаются в мапе до рестарта.
type Store struct {
	mu    sync.Mutex
	tasks map[string]*model.Task
}

func New() *Store {
	return &Store{
		tasks: make(map[string]*model.Task),
	}
}

// Create регистрирует задачу с pending-записью для каждого URL
func (s *Store) Create(text string, urls []string) model.Task {
	records := make([]model.URLRecord, len(urls))
	for i, u := range urls {
		records[i] = model.URLRecord{
			OriginalURL: u,
			Status:      model.StatusPending,
			StatusText:  model.StatusText(model.StatusPending),
		}
	}

	task := &model.Task{
		ID:            uuid.New().String(),
		URLs:          records,
		Total:         len(urls),
		ConvertedText: text,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task

	return snapshot(task)
}

// Get возвращает копию задачи: читатель не делит память с фоновым
// обработчиком и не может увидеть запись посреди обновления
func (s *Store) Get(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, model.ErrTaskNotFound
	}

	return snapshot(task), nil
}

// Apply фиксирует результат обработки одного URL: обновляет его запись,
// пересчитывает completed и при успехе подставляет новую ссылку во все
// вхождения в тексте. Все поля задачи меняются в одной критической секции.
func (s *Store) Apply(id string, res model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.ErrTaskNotFound
	}

	rec := model.URLRecord{
		OriginalURL: res.OriginalURL,
		StorageURL:  res.Outcome.StorageURL,
		Status:      res.Outcome.Status,
		StatusText:  model.StatusText(res.Outcome.Status),
		Error:       res.Outcome.Error,
	}

	found := false
	for i := range task.URLs {
		if task.URLs[i].OriginalURL == res.OriginalURL {
			task.URLs[i] = rec
			found = true
			break
		}
	}
	if !found {
		// Записи создаются вместе с задачей; ветка на случай рассинхрона
		task.URLs = append(task.URLs, rec)
	}

	completed := 0
	for _, r := range task.URLs {
		if r.Status.Terminal() {
			completed++
		}
	}
	task.Completed = completed

	if res.Outcome.Status == model.StatusSuccess {
		task.ConvertedText = strings.ReplaceAll(task.ConvertedText, res.OriginalURL, res.Outcome.StorageURL)
	}

	return nil
}

func snapshot(t *model.Task) model.Task {
	copied := *t
	copied.URLs = make([]model.URLRecord, len(t.URLs))
	copy(copied.URLs, t.URLs)
	return copied
}
