package notification

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// Publish gửi sự kiện JSON tới mọi client đang kết nối /ws
func (s *MelodyService) Publish(event string, payload interface{}) error {
	msg, err := NewMessageBuilder(event).WithData(payload).Build()
	if err != nil {
		return err
	}
	return s.SendMessage(msg)
}

// ToLogin báo dashboard chuyển về trang đăng nhập
func (s *MelodyService) ToLogin(path string) {
	_ = s.Publish(EventNavigate, map[string]string{"path": path})
}

// EventNavigate yêu cầu client điều hướng
const EventNavigate = "navigate"

// Message là khung sự kiện gửi qua websocket
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
	At    time.Time   `json:"at"`
}

type MessageBuilder struct {
	msg Message
}

func NewMessageBuilder(event string) *MessageBuilder {
	return &MessageBuilder{msg: Message{Event: event}}
}

func (b *MessageBuilder) WithData(data interface{}) *MessageBuilder {
	b.msg.Data = data
	return b
}

func (b *MessageBuilder) At(t time.Time) *MessageBuilder {
	b.msg.At = t
	return b
}

func (b *MessageBuilder) Build() (string, error) {
	if b.msg.At.IsZero() {
		b.msg.At = time.Now()
	}
	data, err := json.Marshal(b.msg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
