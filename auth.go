package ceibadl

import (
	"context"
	"net/url"
)

// Credentials are the portal login name and password.
type Credentials struct {
	Username string
	Password string
}

// Validate returns an error if either field is empty.
func (c Credentials) Validate() error {
	if c.Username == "" || c.Password == "" {
		return Errorf(EUNAUTHORIZED, "username and password required")
	}
	return nil
}

// Authenticator establishes a logged-in portal session.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) error
}

// Form is an HTML form found in a page.
type Form struct {
	Action string // absolute URL
	Method string // upper-case, defaults to GET
	Fields url.Values

	// UsernameField and PasswordField name the credential inputs, if any.
	UsernameField string
	PasswordField string
}

// AutoSubmit reports whether the form only carries hidden fields, the
// shape of single sign-on hand-off pages.
func (f *Form) AutoSubmit() bool {
	return f.UsernameField == "" && f.PasswordField == "" && len(f.Fields) > 0
}

// FormParser extracts the first form from a page.
type FormParser interface {
	// ParseForm returns ENOTFOUND if the page has no form.
	ParseForm(html string, pageURL string) (*Form, error)
}
