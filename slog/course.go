package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ceibadl"
)

// Ensure LoggingCourseService implements ceibadl.CourseService.
var _ ceibadl.CourseService = (*LoggingCourseService)(nil)

// LoggingCourseService wraps a CourseService with logging.
type LoggingCourseService struct {
	next   ceibadl.CourseService
	logger *slog.Logger
}

// NewLoggingCourseService creates a new LoggingCourseService.
func NewLoggingCourseService(next ceibadl.CourseService, logger *slog.Logger) *LoggingCourseService {
	return &LoggingCourseService{next: next, logger: logger}
}

// ListCourses delegates to the wrapped service and logs the operation.
func (s *LoggingCourseService) ListCourses(ctx context.Context) (courses []*ceibadl.Course, err error) {
	defer func(begin time.Time) {
		s.logger.Info("list courses",
			"count", len(courses),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListCourses(ctx)
}

// Ensure LoggingAuthenticator implements ceibadl.Authenticator.
var _ ceibadl.Authenticator = (*LoggingAuthenticator)(nil)

// LoggingAuthenticator wraps an Authenticator with logging. The password
// is never logged.
type LoggingAuthenticator struct {
	next   ceibadl.Authenticator
	logger *slog.Logger
}

// NewLoggingAuthenticator creates a new LoggingAuthenticator.
func NewLoggingAuthenticator(next ceibadl.Authenticator, logger *slog.Logger) *LoggingAuthenticator {
	return &LoggingAuthenticator{next: next, logger: logger}
}

// Login delegates to the wrapped authenticator and logs the outcome.
func (a *LoggingAuthenticator) Login(ctx context.Context, creds ceibadl.Credentials) (err error) {
	defer func(begin time.Time) {
		a.logger.Info("login",
			"user", creds.Username,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Login(ctx, creds)
}
