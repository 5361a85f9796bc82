package events

import "context"

type noopPublisher struct{}

// NewNoopPublisher drops every event, for deployments without Redis.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) PublishProgramParsed(ctx context.Context, evt ProgramParsed) error { return nil }

func (noopPublisher) Close() error { return nil }
