package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	sm "github.com/dmitrijs2005/cheatsync/internal/server/models"
	"github.com/dmitrijs2005/cheatsync/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// fakeIdentity accepts "tok-<user>" access tokens and "ref-<user>" refresh
// tokens.
type fakeIdentity struct {
	authErr error
}

func (f *fakeIdentity) SignInAnonymously(context.Context) (*sm.User, *services.TokenPair, error) {
	return &sm.User{ID: "u-new"}, &services.TokenPair{AccessToken: "tok-u-new", RefreshToken: "ref-u-new"}, nil
}

func (f *fakeIdentity) RefreshToken(_ context.Context, refreshToken string) (string, *services.TokenPair, error) {
	if len(refreshToken) < 5 || refreshToken[:4] != "ref-" {
		return "", nil, common.ErrUnauthorized
	}
	user := refreshToken[4:]
	return user, &services.TokenPair{AccessToken: "tok-" + user, RefreshToken: "ref-" + user}, nil
}

func (f *fakeIdentity) Authenticate(_ context.Context, token string) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	if len(token) < 5 || token[:4] != "tok-" {
		return "", common.ErrUnauthorized
	}
	return token[4:], nil
}

type fakeSheets struct {
	owner string
	id    string
	draft models.SheetDraft
	patch models.SheetPatch
	out   models.Sheet
	list  []models.Sheet
	err   error
}

func (f *fakeSheets) List(_ context.Context, ownerID string) ([]models.Sheet, error) {
	f.owner = ownerID
	return f.list, f.err
}

func (f *fakeSheets) Get(_ context.Context, ownerID, id string) (models.Sheet, error) {
	f.owner, f.id = ownerID, id
	return f.out, f.err
}

func (f *fakeSheets) Create(_ context.Context, ownerID string, d models.SheetDraft) (models.Sheet, error) {
	f.owner, f.draft = ownerID, d
	return f.out, f.err
}

func (f *fakeSheets) Update(_ context.Context, ownerID, id string, p models.SheetPatch) (models.Sheet, error) {
	f.owner, f.id, f.patch = ownerID, id, p
	return f.out, f.err
}

func (f *fakeSheets) Delete(_ context.Context, ownerID, id string) error {
	f.owner, f.id = ownerID, id
	return f.err
}

type fakeCategories struct {
	owner string
	id    string
	draft models.CategoryDraft
	list  []models.CustomCategory
	err   error
}

func (f *fakeCategories) List(_ context.Context, ownerID string) ([]models.CustomCategory, error) {
	f.owner = ownerID
	return f.list, f.err
}

func (f *fakeCategories) Create(_ context.Context, ownerID string, d models.CategoryDraft) (models.CustomCategory, error) {
	f.owner, f.draft = ownerID, d
	return models.CustomCategory{ID: "c-1", OwnerID: ownerID, Name: d.Name}, f.err
}

func (f *fakeCategories) Delete(_ context.Context, ownerID, id string) error {
	f.owner, f.id = ownerID, id
	return f.err
}

var errDB = errors.New("connection reset")
