package mock

import (
	"context"

	"github.com/fwojciec/ceibadl"
)

var (
	_ ceibadl.Authenticator = (*Authenticator)(nil)
	_ ceibadl.FormParser    = (*FormParser)(nil)
)

// Authenticator is a mock implementation of ceibadl.Authenticator.
type Authenticator struct {
	LoginFn func(ctx context.Context, creds ceibadl.Credentials) error
}

func (a *Authenticator) Login(ctx context.Context, creds ceibadl.Credentials) error {
	return a.LoginFn(ctx, creds)
}

// FormParser is a mock implementation of ceibadl.FormParser.
type FormParser struct {
	ParseFormFn func(html, pageURL string) (*ceibadl.Form, error)
}

func (p *FormParser) ParseForm(html, pageURL string) (*ceibadl.Form, error) {
	return p.ParseFormFn(html, pageURL)
}
