package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/signup/internal/core/config"
	"github.com/hay-kot/signup/internal/core/rules"
	"github.com/hay-kot/signup/pkg/iojson"
)

func runCheckWith(t *testing.T, cfg config.Config, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()

	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	app := NewCheckCmd(&Flags{Config: &cfg}).Register(&cli.Command{
		Name:           "signup",
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	})

	err = app.Run(context.Background(), append([]string{"signup", "check"}, args...))
	return stdout, stderr, err
}

func runCheck(t *testing.T, args ...string) (CheckResult, error) {
	t.Helper()

	stdout, _, err := runCheckWith(t, config.DefaultConfig(), append([]string{"--today", "2026-01-01"}, args...)...)

	var result CheckResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), stdout.String())
	return result, err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.ExitCode())
}

func decodeError(t *testing.T, stderr *bytes.Buffer) iojson.Error {
	t.Helper()
	var doc iojson.Error
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &doc), stderr.String())
	return doc
}

func TestCheckCmd_Valid(t *testing.T) {
	result, err := runCheck(t,
		"--name", "Ada",
		"--surname", "Lovelace",
		"--email", "ada@example.com",
		"--password", "Analytic1!",
		"--confirm-password", "Analytic1!",
		"--birthday", "1815-12-10",
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	for _, f := range rules.Fields {
		assert.True(t, result.Fields[f], f)
	}
}

func TestCheckCmd_Invalid(t *testing.T) {
	result, err := runCheck(t,
		"--name", "A",
		"--surname", "Lovelace",
		"--email", "ada@",
		"--password", "Analytic1!",
		"--confirm-password", "Analytic1?",
		"--birthday", "2026-01-01",
	)

	requireExitCode(t, err, exitInvalidForm)

	assert.False(t, result.Valid)
	assert.True(t, result.Fields[rules.FieldSurname])
	assert.True(t, result.Fields[rules.FieldPassword])
	assert.Equal(t, map[string]string{
		"name":             rules.Message(rules.FieldName),
		"email":            rules.Message(rules.FieldEmail),
		"confirm-password": rules.Message(rules.FieldConfirmPassword),
		"birthday":         rules.Message(rules.FieldBirthday),
	}, result.Errors)
}

func TestCheckCmd_FileInputWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.json")
	in := `{"name":"Ada","surname":"Lovelace","email":"ada@example.com","password":"Analytic1!","confirm-password":"Analytic1!","birthday":"2030-01-01"}`
	require.NoError(t, os.WriteFile(path, []byte(in), 0o600))

	result, err := runCheck(t, "-f", path)
	require.Error(t, err)
	assert.False(t, result.Fields[rules.FieldBirthday])

	result, err = runCheck(t, "-f", path, "--birthday", "1815-12-10")
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestCheckCmd_UnknownFieldInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nickname":"ada"}`), 0o600))

	stdout, stderr, err := runCheckWith(t, config.DefaultConfig(), "-f", path)
	requireExitCode(t, err, exitBadInput)
	assert.Empty(t, stdout.String())

	doc := decodeError(t, stderr)
	assert.Equal(t, `unknown field "nickname"`, doc.Message)
	assert.Equal(t, "nickname", doc.Data["field"])
}

func TestCheckCmd_UnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	stdout, stderr, err := runCheckWith(t, config.DefaultConfig(), "-f", path)
	requireExitCode(t, err, exitBadInput)
	assert.Empty(t, stdout.String())
	assert.Contains(t, decodeError(t, stderr).Message, "read values")
}

func TestCheckCmd_InvalidToday(t *testing.T) {
	stdout, stderr, err := runCheckWith(t, config.DefaultConfig(), "--today", "someday", "--name", "Ada")
	requireExitCode(t, err, exitBadInput)
	assert.Empty(t, stdout.String())

	doc := decodeError(t, stderr)
	assert.Equal(t, `invalid --today "someday"`, doc.Message)
	assert.Equal(t, "someday", doc.Data["today"])
}

func TestCheckCmd_TodayPinsLiveMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dates.TodayMode = config.TodayModeLive

	stdout, _, err := runCheckWith(t, cfg,
		"--today", "2000-01-01",
		"--name", "Ada",
		"--surname", "Lovelace",
		"--email", "ada@example.com",
		"--password", "Analytic1!",
		"--confirm-password", "Analytic1!",
		"--birthday", "2010-05-05",
	)
	requireExitCode(t, err, exitInvalidForm)

	var result CheckResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), stdout.String())
	assert.False(t, result.Fields[rules.FieldBirthday], "birthday after the pinned day must fail")
	assert.True(t, result.Fields[rules.FieldName])
}

func TestCheck(t *testing.T) {
	r := rules.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	result := Check(r, rules.Values{})
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, len(rules.Fields))
}
