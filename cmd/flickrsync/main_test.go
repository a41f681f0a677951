package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/openmined/flickrsync/internal/config"
	"github.com/openmined/flickrsync/internal/flickrsdk"
	"github.com/openmined/flickrsync/internal/history"
	"github.com/openmined/flickrsync/internal/photo"
	"github.com/openmined/flickrsync/internal/reconcile"
	"github.com/openmined/flickrsync/internal/syncer"
	"github.com/openmined/flickrsync/internal/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestVersionCommand(t *testing.T) {
	cmd := &cobra.Command{Use: "flickrsync"}
	cmd.AddCommand(newVersionCmd())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version.DetailedWithApp(), strings.TrimSpace(out.String()))
}

func TestHistoryPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc/flickrsync", "history.db"), historyPath("/etc/flickrsync/config.json"))
	assert.Equal(t, config.DefaultHistoryPath, historyPath(""))
}

func TestReadOrCreateConfigPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	in := bufio.NewReader(strings.NewReader("key\n/photos\n"))
	var out bytes.Buffer

	cfg, err := readOrCreateConfig(path, "", in, &out, func() (string, error) { return "secret", nil })
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "secret", cfg.APISecret)
	assert.Equal(t, "/photos", cfg.PhotoFolder)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)
}

func TestReadOrCreateConfigPersistsFolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, (&config.Config{APIKey: "k", APISecret: "s", PhotoFolder: "/old", Path: path}).Save())

	cfg, err := readOrCreateConfig(path, "/new", bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/new", cfg.PhotoFolder)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/new", saved.PhotoFolder)
	assert.Equal(t, "k", saved.APIKey)
}

func TestReadOrCreateConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	_, err := readOrCreateConfig(path, "", bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, nil)
	assert.Error(t, err)
}

type fakeFlow struct {
	verifier string
	fail     error
}

func (f *fakeFlow) RequestToken(ctx context.Context, callback string) (*flickrsdk.RequestToken, error) {
	if callback != flickrsdk.OutOfBand {
		return nil, errors.New("unexpected callback")
	}
	return &flickrsdk.RequestToken{Token: "rt", Secret: "rts"}, nil
}

func (f *fakeFlow) AuthorizeURL(rt *flickrsdk.RequestToken, perms string) string {
	return "https://example.test/authorize?oauth_token=" + rt.Token + "&perms=" + perms
}

func (f *fakeFlow) AccessToken(ctx context.Context, rt *flickrsdk.RequestToken, verifier string) (*flickrsdk.AccessToken, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.verifier = verifier
	return &flickrsdk.AccessToken{Token: "at", Secret: "ats", UserNSID: "1@N00", Username: "me"}, nil
}

func TestAuthorize(t *testing.T) {
	flow := &fakeFlow{}
	var out bytes.Buffer

	token, err := authorize(context.Background(), flow, bufio.NewReader(strings.NewReader(" 123-456-789 \n")), &out)
	require.NoError(t, err)
	assert.Equal(t, "at", token.Token)
	assert.Equal(t, "123-456-789", flow.verifier)
	assert.Contains(t, out.String(), "perms=delete")
}

func TestAuthorizeErrors(t *testing.T) {
	_, err := authorize(context.Background(), &fakeFlow{}, bufio.NewReader(strings.NewReader("\n")), &bytes.Buffer{})
	assert.Error(t, err)

	boom := errors.New("rejected")
	_, err = authorize(context.Background(), &fakeFlow{fail: boom}, bufio.NewReader(strings.NewReader("code\n")), &bytes.Buffer{})
	assert.ErrorIs(t, err, boom)
}

func TestLoginIfNeeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	onDisk := &config.Config{APIKey: "k", APISecret: "s", PhotoFolder: "/photos", Path: path}
	require.NoError(t, onDisk.Save())

	// the folder flag overrides the file and must not be written back
	cfg := &config.Config{APIKey: "k", APISecret: "s", PhotoFolder: "/elsewhere", Path: path}
	flow := &fakeFlow{}
	var out bytes.Buffer

	err := loginIfNeeded(context.Background(), cfg, flow, bufio.NewReader(strings.NewReader("code\n")), &out)
	require.NoError(t, err)
	assert.Equal(t, "code", flow.verifier)
	assert.True(t, cfg.Authorized())
	assert.Equal(t, "1@N00", cfg.UserID)
	assert.Contains(t, stripANSI(out.String()), "Logged in as me")

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "at", saved.OAuthToken)
	assert.Equal(t, "ats", saved.OAuthTokenSecret)
	assert.Equal(t, "1@N00", saved.UserID)
	assert.Equal(t, "/photos", saved.PhotoFolder)
}

func TestLoginIfNeededWithoutConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := &config.Config{APIKey: "k", APISecret: "s", PhotoFolder: "/photos", Path: path}

	err := loginIfNeeded(context.Background(), cfg, &fakeFlow{}, bufio.NewReader(strings.NewReader("code\n")), &bytes.Buffer{})
	require.NoError(t, err)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "at", saved.OAuthToken)
	assert.Equal(t, "/photos", saved.PhotoFolder)
}

func TestLoginIfNeededSkipsWhenAuthorized(t *testing.T) {
	cfg := &config.Config{APIKey: "k", APISecret: "s", OAuthToken: "t", OAuthTokenSecret: "ts", Path: filepath.Join(t.TempDir(), "config.json")}
	flow := &fakeFlow{fail: errors.New("must not be called")}
	var out bytes.Buffer

	require.NoError(t, loginIfNeeded(context.Background(), cfg, flow, bufio.NewReader(strings.NewReader("")), &out))
	assert.Empty(t, out.String())
	assert.NoFileExists(t, cfg.Path)
}

func TestLoginIfNeededFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := &config.Config{APIKey: "k", APISecret: "s", Path: path}
	boom := errors.New("rejected")

	err := loginIfNeeded(context.Background(), cfg, &fakeFlow{fail: boom}, bufio.NewReader(strings.NewReader("code\n")), &bytes.Buffer{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, cfg.Authorized())
	assert.NoFileExists(t, path)
}

func TestPrintSummary(t *testing.T) {
	summary := &syncer.Summary{
		LocalCount:  3,
		RemoteCount: 2,
		Plan: &reconcile.Plan{
			ToDelete:  photo.NewNameSet("d"),
			ToUpload:  photo.NewNameSet("c"),
			ToReplace: photo.NewNameSet(),
			Unchanged: photo.NewNameSet("a", "b"),
		},
		Deleted: 1,
		Uploads: &syncer.Report{
			Op:        photo.OpUpload,
			Succeeded: []string{"c"},
			Failed:    []syncer.Failure{{Name: "e", Err: errors.New("x")}},
		},
		Elapsed: 1500 * time.Millisecond,
	}

	var out bytes.Buffer
	printSummary(&out, summary)
	got := stripANSI(out.String())

	assert.Contains(t, got, "Sync summary")
	assert.Regexp(t, `deleted\s+.*1`, got)
	assert.Regexp(t, `replaced\s+.*skipped`, got)
	assert.Regexp(t, `unchanged\s+.*2`, got)
	assert.Regexp(t, `failed\s+.*1`, got)
}

func TestPrintHistory(t *testing.T) {
	var out bytes.Buffer
	printHistory(&out, nil, 0)
	assert.Contains(t, out.String(), "no operations recorded")

	out.Reset()
	printHistory(&out, []*history.Entry{
		{Op: photo.OpUpload, Name: "cat", PhotoID: "42", Status: history.StatusOK, CreatedAt: time.Now()},
		{Op: photo.OpDelete, Name: "dog", Status: history.StatusFailed, Error: "denied", CreatedAt: time.Now()},
	}, 1200)
	got := stripANSI(out.String())
	assert.Contains(t, got, "cat")
	assert.Contains(t, got, "#42")
	assert.Contains(t, got, "denied")
	assert.Contains(t, got, "showing 2 of 1,200 entries")
}

func TestLogConfigMasksKey(t *testing.T) {
	var out bytes.Buffer
	logConfig(&out, &config.Config{Path: "/c.json", PhotoFolder: "/p", APIKey: "0123456789abcdef", UserID: "1@N00"})
	got := stripANSI(out.String())

	assert.Contains(t, got, "0123*****")
	assert.NotContains(t, got, "456789")
	assert.Contains(t, got, "1@N00")
}
