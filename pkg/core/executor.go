package core

import (
	"context"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/kjetilpp/mysqldumpall/pkg/database"
	"github.com/kjetilpp/mysqldumpall/pkg/run"
)

// Lister retrieves the names of all databases on the server.
type Lister func(ctx context.Context, dbconn database.Connection) ([]string, error)

// Executor carries the injectable collaborators of a dump run. The zero
// value with a logger uses the real database lister, the local process
// runner and os.Stdout.
type Executor struct {
	Logger *log.Logger
	Runner run.Runner
	Lister Lister
	Stdout io.Writer // progress echo, one database name per line
}

func (e *Executor) SetLogger(logger *log.Logger) {
	e.Logger = logger
}

func (e *Executor) GetLogger() *log.Logger {
	return e.Logger
}

func (e *Executor) runner() run.Runner {
	if e.Runner == nil {
		return run.Local{}
	}
	return e.Runner
}

func (e *Executor) lister() Lister {
	if e.Lister == nil {
		return database.ListDatabases
	}
	return e.Lister
}

func (e *Executor) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}
