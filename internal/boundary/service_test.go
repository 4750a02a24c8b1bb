package boundary

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiosk-labs/kiosk/internal/registry"
	"github.com/kiosk-labs/kiosk/internal/setup"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *Service
	roots registry.Roots
	logs  *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	tmp := t.TempDir()
	roots := registry.Roots{
		Builtin: filepath.Join(tmp, "builtin"),
		User:    filepath.Join(tmp, "userdata", "extensions"),
	}
	require.NoError(t, os.MkdirAll(roots.Builtin, 0755))

	logs := &bytes.Buffer{}
	log := zerolog.New(logs)
	reg := registry.New(roots, registry.WithLogger(log))
	mgr := setup.NewManager("", filepath.Join(tmp, "userdata", "config", "user-config.json"), log)
	return fixture{svc: New(reg, mgr, log), roots: roots, logs: logs}
}

func writeBundle(t *testing.T, root, id, name, version string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := "name: " + name + "\n" +
		"description: " + name + " panel\n" +
		"version: " + version + "\n" +
		"author: Kiosk Team\n" +
		"component: " + name + "Widget\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extension.yaml"), []byte(content), 0644))
	return dir
}

func TestStartLoadsBothRoots(t *testing.T) {
	f := newFixture(t)
	writeBundle(t, f.roots.Builtin, "clock", "Clock", "1.0.0")
	writeBundle(t, f.roots.User, "gpio", "Gpio", "0.1.0")

	got := f.svc.Start(context.Background())
	assert.Len(t, got, 2)
	assert.Equal(t, got, f.svc.GetExtensions())

	e, ok := f.svc.GetExtension("gpio")
	require.True(t, ok)
	assert.Equal(t, registry.OriginUser, e.Origin)
}

func TestStartWithMissingRoots(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.roots.Builtin))

	assert.Empty(t, f.svc.Start(context.Background()))
	assert.Contains(t, f.logs.String(), "skipping extension root")
}

func TestReloadReportsFailure(t *testing.T) {
	f := newFixture(t)
	writeBundle(t, f.roots.Builtin, "clock", "Clock", "1.0.0")
	require.Len(t, f.svc.Start(context.Background()), 1)

	writeBundle(t, f.roots.User, "gpio", "Gpio", "0.1.0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	all, err := f.svc.Reload(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, all, 1, "a failed reload returns the previous mapping")
	assert.NotContains(t, f.svc.GetExtensions(), "gpio")
	assert.Contains(t, f.logs.String(), `"op":"reload"`)

	all, err = f.svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInstallAndUninstall(t *testing.T) {
	f := newFixture(t)
	f.svc.Start(context.Background())
	src := writeBundle(t, t.TempDir(), "lights", "Lights", "2.0.0")

	require.True(t, f.svc.InstallExtension(src))
	assert.Contains(t, f.svc.GetExtensions(), "lights")

	assert.False(t, f.svc.InstallExtension(src), "second install of the same id must fail")

	require.True(t, f.svc.UninstallExtension("lights"))
	assert.NotContains(t, f.svc.GetExtensions(), "lights")
	assert.NoDirExists(t, filepath.Join(f.roots.User, "lights"))
}

func TestFailuresAreLoggedWithContext(t *testing.T) {
	f := newFixture(t)
	writeBundle(t, f.roots.Builtin, "clock", "Clock", "1.0.0")
	f.svc.Start(context.Background())
	f.logs.Reset()

	assert.False(t, f.svc.UninstallExtension("clock"))
	assert.Contains(t, f.logs.String(), `"op":"uninstallExtension"`)
	assert.Contains(t, f.logs.String(), `"id":"clock"`)
	assert.Contains(t, f.svc.GetExtensions(), "clock")

	assert.False(t, f.svc.InstallExtension(filepath.Join(t.TempDir(), "missing")))
	assert.Contains(t, f.logs.String(), `"op":"installExtension"`)
}

func TestReloadPicksUpDiskChanges(t *testing.T) {
	f := newFixture(t)
	f.svc.Start(context.Background())
	assert.Empty(t, f.svc.GetExtensions())

	writeBundle(t, f.roots.User, "gpio", "Gpio", "0.1.0")
	got := f.svc.ReloadExtensions()
	assert.Contains(t, got, "gpio")
}

func TestSetupOperations(t *testing.T) {
	f := newFixture(t)

	assert.NotEmpty(t, f.svc.GetSetupQuestions())
	assert.False(t, f.svc.IsSetupCompleted())
	assert.Nil(t, f.svc.GetUserConfig())
	assert.False(t, f.svc.ResetSetup())

	cfg := setup.UserConfig{"vehicle_name": "Blue Van", "enable_gpio": true}
	require.True(t, f.svc.SaveUserConfig(cfg))
	assert.True(t, f.svc.IsSetupCompleted())
	assert.Equal(t, cfg, f.svc.GetUserConfig())

	assert.True(t, f.svc.ResetSetup())
	assert.False(t, f.svc.IsSetupCompleted())
}

func TestSetupQuestionsErrorYieldsEmpty(t *testing.T) {
	tmp := t.TempDir()
	bad := filepath.Join(tmp, "questions.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))

	reg := registry.New(registry.Roots{User: filepath.Join(tmp, "ext")})
	svc := New(reg, setup.NewManager(bad, filepath.Join(tmp, "user-config.json"), zerolog.Nop()), zerolog.Nop())

	qs := svc.GetSetupQuestions()
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}

func TestSaveUserConfigNil(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.svc.SaveUserConfig(nil))
}
