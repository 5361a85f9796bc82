package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

func TestEnvelope_CarriesTypedPayload(t *testing.T) {
	evt := ProgramParsed{
		ProgramID:    uuid.New(),
		UserID:       uuid.New(),
		WorkoutCount: 14,
		WeekCount:    2,
		SourceKind:   "upload",
	}
	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	raw, err := json.Marshal(envelope{Type: TopicProgramParsed, Data: data})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != TopicProgramParsed {
		t.Fatalf("unexpected type: %q", env.Type)
	}
	var got ProgramParsed
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.ProgramID != evt.ProgramID || got.WorkoutCount != 14 {
		t.Fatalf("payload mismatch: %#v", got)
	}
}

func TestNoopPublisher_AcceptsEverything(t *testing.T) {
	p := NewNoopPublisher()
	if err := p.PublishProgramParsed(context.Background(), ProgramParsed{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected close err: %v", err)
	}
}

func TestNewRedisPublisher_Validation(t *testing.T) {
	if _, err := NewRedisPublisher(nil); err == nil {
		t.Fatalf("expected error without logger")
	}

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Setenv("REDIS_ADDR", "")
	if _, err := NewRedisPublisher(log); err == nil {
		t.Fatalf("expected error without REDIS_ADDR")
	}
}
