package main

import (
	"fmt"

	"github.com/fwojciec/ceibadl"
)

// Run executes the courses command.
func (c *CoursesCmd) Run(deps *Dependencies) error {
	courses, err := loginAndList(deps)
	if err != nil {
		return err
	}

	if len(courses) == 0 {
		fmt.Fprintln(deps.Stdout, "No courses found.")
		return nil
	}

	for _, course := range courses {
		name := course.Name
		if course.EnglishName != "" {
			name += " (" + course.EnglishName + ")"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", course.Semester, course.Number, name, course.Teacher)
	}

	return nil
}

// loginAndList logs in with the configured credentials and fetches the
// enrolled course list. Errors are reported on stderr.
func loginAndList(deps *Dependencies) ([]*ceibadl.Course, error) {
	if err := deps.Auth.Login(deps.Ctx, deps.Credentials); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		if ceibadl.ErrorCode(err) == ceibadl.EUNAUTHORIZED {
			fmt.Fprintln(deps.Stderr, "Hint: set --username/--password, CEIBA_USERNAME/CEIBA_PASSWORD or the config file")
		}
		return nil, err
	}

	courses, err := deps.Courses.ListCourses(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		return nil, err
	}
	return courses, nil
}
