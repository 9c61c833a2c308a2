package application

import "context"

// Command is a request to change state.
type Command interface {
	CommandName() string
}

// CommandHandler handles one command type.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, cmd C) error
}

// Query reads state without changing it.
type Query interface {
	QueryName() string
}

// QueryHandler answers one query type.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
