package ceibadl

import "context"

// ModuleStatus is the result of one module attempt.
type ModuleStatus int

const (
	// ModuleFetched means the module page was written to disk.
	ModuleFetched ModuleStatus = iota
	// ModuleSkipped means the portal reported the module as disabled.
	ModuleSkipped
	// ModuleFailed means fetching or writing the module failed.
	ModuleFailed
)

func (s ModuleStatus) String() string {
	switch s {
	case ModuleFetched:
		return "fetched"
	case ModuleSkipped:
		return "skipped"
	case ModuleFailed:
		return "failed"
	}
	return "unknown"
}

// ModuleOutcome records what happened to one module of a course.
type ModuleOutcome struct {
	Module Module
	Status ModuleStatus
	Path   string // written file, empty unless fetched
	Bytes  int
	Hash   string // xxhash of the written body
	Err    error  // set when Status is ModuleFailed
}

// CourseResult holds the outcome of downloading one course.
type CourseResult struct {
	Course  *Course
	Dir     string
	Modules []ModuleOutcome
	Assets  []AssetOutcome

	// Err is set when the course could not be downloaded at all
	// (session id or page layout problems).
	Err error
}

// Counts returns the number of fetched, skipped and failed modules.
func (r *CourseResult) Counts() (fetched, skipped, failed int) {
	for _, o := range r.Modules {
		switch o.Status {
		case ModuleFetched:
			fetched++
		case ModuleSkipped:
			skipped++
		case ModuleFailed:
			failed++
		}
	}
	return fetched, skipped, failed
}

// Bytes returns the total size of fetched module pages.
func (r *CourseResult) Bytes() int {
	var n int
	for _, o := range r.Modules {
		n += o.Bytes
	}
	return n
}

// ProgressEvent reports progress during a course download.
type ProgressEvent struct {
	Course *Course
	Module Module // empty for catch-up steps

	// Steps is the number of units of work completed by this event.
	Steps  int
	Status ModuleStatus
}

// ProgressFunc is called as modules are processed. It must not block.
type ProgressFunc func(ProgressEvent)

// DownloadOptions configures a course download.
type DownloadOptions struct {
	Modules  ModuleFilter
	Progress ProgressFunc
}

// CourseDownloader mirrors a single course.
type CourseDownloader interface {
	// Download mirrors the course into root/<folder name>. Per-module
	// failures are reported in the result; an error is returned only when
	// the course as a whole could not be processed.
	Download(ctx context.Context, course *Course, root string, opts DownloadOptions) (*CourseResult, error)
}

// Report passes e to Progress if one is set.
func (o DownloadOptions) Report(e ProgressEvent) {
	if o.Progress != nil {
		o.Progress(e)
	}
}
