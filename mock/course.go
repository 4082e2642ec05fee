package mock

import (
	"context"

	"github.com/fwojciec/ceibadl"
)

var (
	_ ceibadl.CourseService    = (*CourseService)(nil)
	_ ceibadl.CourseDownloader = (*CourseDownloader)(nil)
)

// CourseService is a mock implementation of ceibadl.CourseService.
type CourseService struct {
	ListCoursesFn func(ctx context.Context) ([]*ceibadl.Course, error)
}

func (s *CourseService) ListCourses(ctx context.Context) ([]*ceibadl.Course, error) {
	return s.ListCoursesFn(ctx)
}

// CourseDownloader is a mock implementation of ceibadl.CourseDownloader.
type CourseDownloader struct {
	DownloadFn func(ctx context.Context, course *ceibadl.Course, root string, opts ceibadl.DownloadOptions) (*ceibadl.CourseResult, error)
}

func (d *CourseDownloader) Download(ctx context.Context, course *ceibadl.Course, root string, opts ceibadl.DownloadOptions) (*ceibadl.CourseResult, error) {
	return d.DownloadFn(ctx, course, root, opts)
}
