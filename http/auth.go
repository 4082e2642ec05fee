package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fwojciec/ceibadl"
)

// maxAutoSubmitHops bounds how many hidden-field hand-off forms are
// followed after the credentials are posted.
const maxAutoSubmitHops = 3

// Ensure Authenticator implements ceibadl.Authenticator at compile time.
var _ ceibadl.Authenticator = (*Authenticator)(nil)

// Authenticator logs a Session in through the portal's login form.
type Authenticator struct {
	session  *Session
	forms    ceibadl.FormParser
	loginURL string
}

// NewAuthenticator creates an Authenticator that starts at loginURL.
func NewAuthenticator(session *Session, forms ceibadl.FormParser, loginURL string) *Authenticator {
	return &Authenticator{
		session:  session,
		forms:    forms,
		loginURL: loginURL,
	}
}

// Login fetches the login page, posts the credentials into its form and
// follows any single sign-on hand-off forms. The session's cookie jar holds
// the resulting login state.
func (a *Authenticator) Login(ctx context.Context, creds ceibadl.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	page, err := a.session.Fetch(ctx, a.loginURL)
	if err != nil {
		return fmt.Errorf("fetch login page: %w", err)
	}

	form, err := a.forms.ParseForm(string(page.Body), page.URL)
	if err != nil {
		if ceibadl.ErrorCode(err) == ceibadl.ENOTFOUND {
			return ceibadl.Errorf(ceibadl.ELAYOUT, "no login form at %s", page.URL)
		}
		return err
	}
	if form.PasswordField == "" {
		return ceibadl.Errorf(ceibadl.ELAYOUT, "login form at %s has no password field", page.URL)
	}

	form.Fields.Set(form.PasswordField, creds.Password)
	if form.UsernameField != "" {
		form.Fields.Set(form.UsernameField, creds.Username)
	}

	page, err = a.submit(ctx, form)
	if err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}

	for hop := 0; hop < maxAutoSubmitHops; hop++ {
		next, err := a.forms.ParseForm(string(page.Body), page.URL)
		if err != nil {
			if ceibadl.ErrorCode(err) == ceibadl.ENOTFOUND {
				return nil
			}
			return err
		}
		if next.PasswordField != "" {
			return ceibadl.Errorf(ceibadl.EUNAUTHORIZED, "login rejected for %q", creds.Username)
		}
		if !next.AutoSubmit() {
			return nil
		}
		page, err = a.submit(ctx, next)
		if err != nil {
			return fmt.Errorf("follow sign-on form: %w", err)
		}
	}

	return nil
}

func (a *Authenticator) submit(ctx context.Context, form *ceibadl.Form) (*ceibadl.Response, error) {
	if form.Method == http.MethodPost {
		return a.session.PostForm(ctx, form.Action, form.Fields)
	}

	u, err := url.Parse(form.Action)
	if err != nil {
		return nil, ceibadl.Errorf(ceibadl.EINVALID, "invalid form action %q: %v", form.Action, err)
	}
	u.RawQuery = form.Fields.Encode()
	return a.session.Fetch(ctx, u.String())
}
