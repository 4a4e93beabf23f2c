package model

import "errors"

// Status статус обработки одного URL внутри задачи
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Terminal сообщает, что запись больше не изменится
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusSkipped
}

// StatusText возвращает человекочитаемое описание статуса
func StatusText(s Status) string {
	switch s {
	case StatusSuccess:
		return "converted"
	case StatusFailed:
		return "conversion failed"
	case StatusSkipped:
		return "already a storage URL"
	default:
		return string(s)
	}
}

// URLRecord состояние конвертации одного URL внутри задачи
type URLRecord struct {
	OriginalURL string `json:"original_url"`
	StorageURL  string `json:"storage_url,omitempty"`
	Status      Status `json:"status"`
	StatusText  string `json:"status_text"`
	Error       string `json:"error,omitempty"`
}

// Task задача конвертации: все URL текста и текущий прогресс
type Task struct {
	ID            string      `json:"task_id"`
	URLs          []URLRecord `json:"urls"`
	Total         int         `json:"total"`
	Completed     int         `json:"completed"`
	ConvertedText string      `json:"converted_text"`
}

// Outcome результат обработки одного URL воркером.
// При failed и skipped StorageURL совпадает с исходным URL,
// чтобы замена в тексте ничего не меняла.
type Outcome struct {
	Status     Status
	StorageURL string
	Error      string
}

// Result пара (URL, результат), которую оркестратор отдает по мере готовности
type Result struct {
	OriginalURL string
	Outcome     Outcome
}

// UploadResult адрес и ключ загруженного в хранилище объекта
type UploadResult struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
}

// ConvertRequest тело запроса на конвертацию текста
type ConvertRequest struct {
	Text string `json:"text"`
}

// SubmitResponse ответ на запуск конвертации.
// При total=0 задача не создается и task_id пустой.
type SubmitResponse struct {
	TaskID        string      `json:"task_id"`
	Total         int         `json:"total"`
	URLs          []URLRecord `json:"urls"`
	ConvertedText string      `json:"converted_text"`
}

var ErrTaskNotFound = errors.New("задача не найдена")
