package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/kjetilpp/mysqldumpall/pkg/core"
)

type mockExecs struct {
	mock.Mock
	logger *log.Logger
}

func newMockExecs() *mockExecs {
	m := &mockExecs{}
	return m
}

func (m *mockExecs) SetLogger(logger *log.Logger) {
	m.logger = logger
}

func (m *mockExecs) GetLogger() *log.Logger {
	return m.logger
}

func (m *mockExecs) Dump(ctx context.Context, opts core.DumpOptions) (core.DumpResults, error) {
	args := m.Called(opts)
	return core.DumpResults{}, args.Error(0)
}

func (m *mockExecs) Timer(timerOpts core.TimerOptions, cmd func() error) error {
	args := m.Called(timerOpts)
	err := args.Error(0)
	if err != nil {
		return err
	}
	return cmd()
}
