package logging

import (
	"context"

	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
)

// NewNoOpLogger returns a logger that drops every entry.
func NewNoOpLogger() ports.Logger {
	return discard{}
}

type discard struct{}

func (discard) Debug(context.Context, string, ...interface{}) {}
func (discard) Info(context.Context, string, ...interface{})  {}
func (discard) Warn(context.Context, string, ...interface{})  {}
func (discard) Error(context.Context, string, ...interface{}) {}

func (d discard) With(...interface{}) ports.Logger { return d }
