package strata_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/0xalexb/strata"
)

func TestNewModule_ProvidesNamedConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "app: demo\n")

	var cfg *strata.Config

	app := fx.New(
		fx.NopLogger,
		strata.NewModule("main", "config.yaml", strata.WithConfigDir(dir)),
		fx.Invoke(fx.Annotate(
			func(c *strata.Config) { cfg = c },
			fx.ParamTags(`name:"main"`),
		)),
	)

	require.NoError(t, app.Start(context.Background()))
	defer func() { require.NoError(t, app.Stop(context.Background())) }()

	require.NotNil(t, cfg)
	require.Equal(t, "demo", cfg.MustGet("app"))
}

func TestNewModule_SideBySideConfigs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app.yaml", "name: app\n")
	writeFile(t, dir, "jobs.yaml", "name: jobs\n")

	var appName, jobsName string

	fxApp := fx.New(
		fx.NopLogger,
		strata.NewModule("app", "app.yaml", strata.WithConfigDir(dir)),
		strata.NewModule("jobs", "jobs.yaml", strata.WithConfigDir(dir)),
		fx.Invoke(fx.Annotate(
			func(app, jobs *strata.Config) {
				appName = app.MustGet("name").(string)
				jobsName = jobs.MustGet("name").(string)
			},
			fx.ParamTags(`name:"app"`, `name:"jobs"`),
		)),
	)

	require.NoError(t, fxApp.Start(context.Background()))
	defer func() { require.NoError(t, fxApp.Stop(context.Background())) }()

	require.Equal(t, "app", appName)
	require.Equal(t, "jobs", jobsName)
}

func TestNewModule_EmptyName(t *testing.T) {
	t.Parallel()

	app := fx.New(fx.NopLogger, strata.NewModule("", "config.yaml"))

	require.Error(t, app.Err())
	require.ErrorIs(t, app.Err(), strata.ErrEmptyName)
}

func TestNewModule_MissingFile(t *testing.T) {
	t.Parallel()

	app := fx.New(
		fx.NopLogger,
		strata.NewModule("main", "nope.yaml", strata.WithConfigDir(t.TempDir())),
		fx.Invoke(fx.Annotate(
			func(*strata.Config) {},
			fx.ParamTags(`name:"main"`),
		)),
	)

	require.Error(t, app.Start(context.Background()))
}

func TestProvide_DecodesSubtree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "db:\n  host: dbhost\n")

	var db *dbConfig

	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() (*strata.Config, error) {
			return strata.Load("config.yaml", strata.WithConfigDir(dir))
		}),
		fx.Provide(strata.Provide[dbConfig]("db")),
		fx.Populate(&db),
	)

	require.NoError(t, app.Start(context.Background()))
	defer func() { require.NoError(t, app.Stop(context.Background())) }()

	require.NotNil(t, db)
	require.Equal(t, "dbhost", db.Host)
	require.Equal(t, 5432, db.Port, "defaults applied during decoding")
}
