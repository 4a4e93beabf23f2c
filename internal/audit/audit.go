package audit

import (
	"sync"
	"time"
)

// Action тип действия аудита
type Action string

const (
	ActionUpload   Action = "upload"
	ActionConvert  Action = "convert"
	ActionTaskDone Action = "task_done"
)

// Event структура события аудита
type Event struct {
	Timestamp int64  `json:"ts"`
	Action    Action `json:"action"`
	TaskID    string `json:"task_id,omitempty"`
	Target    string `json:"target"`
	Status    string `json:"status,omitempty"`
}

// NewEvent создаёт новое событие аудита
func NewEvent(action Action, taskID, target, status string) Event {
	return Event{
		Timestamp: time.Now().Unix(),
		Action:    action,
		TaskID:    taskID,
		Target:    target,
		Status:    status,
	}
}

type Observer interface {
	Notify(event Event)
	Close() error
}

type Publisher struct {
	mu          sync.Mutex
	subscribers []Observer
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Subscribe(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers = append(p.subscribers, o)
}

func (p *Publisher) Publish(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.subscribers {
		s.Notify(event)
	}
}

// Close закрывает всех наблюдателей
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, obs := range p.subscribers {
		if err := obs.Close(); err != nil {
			return err
		}
	}
	return nil
}
