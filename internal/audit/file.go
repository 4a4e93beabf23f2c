package audit

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"sync"
)

// FileObserver пишет события в файл в формате JSON Lines
type FileObserver struct {
	file *os.File
	buf  *bufio.Writer
	mu   sync.Mutex
}

// NewFileObserver открывает файл аудита на дозапись
func NewFileObserver(path string) (*FileObserver, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileObserver{file: file, buf: bufio.NewWriter(file)}, nil
}

// Notify дописывает событие одной строкой
func (f *FileObserver) Notify(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := json.NewEncoder(f.buf).Encode(event); err != nil {
		log.Printf("audit file: ошибка записи: %v", err)
		return
	}
	if err := f.buf.Flush(); err != nil {
		log.Printf("audit file: ошибка сброса буфера: %v", err)
	}
}

// Close сбрасывает буфер и закрывает файл
func (f *FileObserver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.buf.Flush(); err != nil {
		return err
	}
	return f.file.Close()
}
