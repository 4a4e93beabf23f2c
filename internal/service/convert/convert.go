package convert

import (
	"context"

	"github.com/Popolzen/ossconvert/internal/audit"
	"github.com/Popolzen/ossconvert/internal/converter"
	"github.com/Popolzen/ossconvert/internal/extractor"
	"github.com/Popolzen/ossconvert/internal/logger"
	"github.com/Popolzen/ossconvert/internal/metrics"
	"github.com/Popolzen/ossconvert/internal/model"
	"github.com/Popolzen/ossconvert/internal/storage"
	"github.com/Popolzen/ossconvert/internal/taskstore"
)

// Service связывает извлечение ссылок, конвертацию и хранение задач
type Service struct {
	converter *converter.Converter
	store     *taskstore.Store
	storage   storage.ObjectStorage
	publisher *audit.Publisher
}

func NewService(conv *converter.Converter, store *taskstore.Store, st storage.ObjectStorage, pub *audit.Publisher) *Service {
	return &Service{
		converter: conv,
		store:     store,
		storage:   st,
		publisher: pub,
	}
}

// Submit извлекает ссылки из текста и запускает фоновую конвертацию.
// Ответ возвращается сразу: если ссылок нет — с total=0 и без задачи,
// иначе — с id задачи для опроса прогресса.
func (s *Service) Submit(text string) model.SubmitResponse {
	urls := extractor.Extract(text)

	if len(urls) == 0 {
		return model.SubmitResponse{
			URLs:          []model.URLRecord{},
			ConvertedText: text,
		}
	}

	task := s.store.Create(text, urls)
	metrics.RecordTaskStarted()

	go s.run(task.ID, urls)

	return model.SubmitResponse{
		TaskID:        task.ID,
		Total:         task.Total,
		URLs:          task.URLs,
		ConvertedText: text,
	}
}

// run — фоновый прогон задачи; живет дольше породившего его запроса,
// наблюдаем только через опрос прогресса
func (s *Service) run(taskID string, urls []string) {
	for res := range s.converter.ConvertAll(context.Background(), urls) {
		if err := s.store.Apply(taskID, res); err != nil {
			logger.Errorw("не удалось обновить задачу",
				"task_id", taskID,
				"url", res.OriginalURL,
				"err", err,
			)
			continue
		}

		metrics.RecordConversion(string(res.Outcome.Status))
		s.publisher.Publish(audit.NewEvent(
			audit.ActionConvert, taskID, res.OriginalURL, string(res.Outcome.Status),
		))
		logger.Infow("url обработан",
			"task_id", taskID,
			"url", res.OriginalURL,
			"status", res.Outcome.Status,
		)
	}

	s.publisher.Publish(audit.NewEvent(audit.ActionTaskDone, taskID, "", ""))
	logger.Infow("задача завершена", "task_id", taskID)
}

// Progress возвращает текущий снимок задачи
func (s *Service) Progress(id string) (model.Task, error) {
	return s.store.Get(id)
}

// Upload загружает файл напрямую, минуя извлечение ссылок
func (s *Service) Upload(ctx context.Context, data []byte, filename string) (model.UploadResult, error) {
	res, err := s.storage.Upload(ctx, data, filename)
	if err != nil {
		return model.UploadResult{}, err
	}

	metrics.RecordUpload(len(data))
	s.publisher.Publish(audit.NewEvent(
		audit.ActionUpload, "", res.ObjectKey, string(model.StatusSuccess),
	))

	return res, nil
}
