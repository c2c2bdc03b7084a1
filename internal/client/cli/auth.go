package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/aora/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for username, email and password, creates the account
// and signs in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	profile, err := a.store.SignUp(ctx, username, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", profile.Username)
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	profile, err := a.store.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", profile.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	a.mine.SetProducer(ctx, "", noPosts)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	s := a.store.Snapshot()
	if !s.IsLoggedIn {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	u := s.CurrentUser
	fmt.Fprintf(a.out, "%s <%s>\navatar: %s\n", u.Username, u.Email, u.AvatarURL)
	return nil
}
