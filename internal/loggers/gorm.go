// Copyright 2024 Sudo Sweden AB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package loggers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type gormSlogger struct {
	logger   *slog.Logger
	logLevel gormlogger.LogLevel
	slow     time.Duration
}

func (s *gormSlogger) LogMode(logLevel gormlogger.LogLevel) gormlogger.Interface {
	c := *s
	c.logLevel = logLevel

	return &c
}

func (s *gormSlogger) Info(ctx context.Context, format string, args ...any) {
	if s.logLevel < gormlogger.Info {
		return
	}

	s.logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (s *gormSlogger) Warn(ctx context.Context, format string, args ...any) {
	if s.logLevel < gormlogger.Warn {
		return
	}

	s.logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (s *gormSlogger) Error(ctx context.Context, format string, args ...any) {
	if s.logLevel < gormlogger.Error {
		return
	}

	s.logger.ErrorContext(ctx, fmt.Sprintf(format, args...))
}

func (s *gormSlogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if s.logLevel <= gormlogger.Silent {
		return
	}

	// record not found is an expected outcome of lookups
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil:
		sql, rows := fc()
		s.logger.DebugContext(ctx, "gorm trace", "sql", sql, "rows", rows, "elapsed", elapsed, "err", err)
	case s.slow > 0 && elapsed > s.slow && s.logLevel >= gormlogger.Warn:
		sql, rows := fc()
		s.logger.WarnContext(ctx, "slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case s.logLevel >= gormlogger.Info:
		sql, rows := fc()
		s.logger.DebugContext(ctx, "gorm trace", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}

type GormSloggerOption func(*gormSlogger)

func WithSlowThreshold(threshold time.Duration) GormSloggerOption {
	return func(s *gormSlogger) {
		s.slow = threshold
	}
}

func WithLogLevel(logLevel gormlogger.LogLevel) GormSloggerOption {
	return func(s *gormSlogger) {
		s.logLevel = logLevel
	}
}

// NewGormSlogger returns a gorm logger writing to logger. Failed statements are
// logged at debug level.
func NewGormSlogger(logger *slog.Logger, gormSloggerOptions ...GormSloggerOption) gormlogger.Interface {
	s := gormSlogger{
		logger:   logger,
		logLevel: gormlogger.Warn,
		slow:     200 * time.Millisecond,
	}

	for _, gormSloggerOption := range gormSloggerOptions {
		gormSloggerOption(&s)
	}

	return &s
}
