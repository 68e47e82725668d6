package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "arena.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	convey.Convey("With no file and no environment", t, func() {
		config, err := load("")

		convey.So(err, convey.ShouldBeNil)
		convey.So(config, convey.ShouldResemble, Default())
	})

	convey.Convey("A YAML file overrides the defaults", t, func() {
		path := writeConfig(t, `
engine: ./halite
turn_limit: 250
players_min: 2
players_max: 6
player_dist: [2, 4, 6]
dynamics_factor: 0.5
`)

		config, err := load(path)

		convey.So(err, convey.ShouldBeNil)
		convey.So(config.Engine, convey.ShouldEqual, "./halite")
		convey.So(config.TurnLimit, convey.ShouldEqual, 250)
		convey.So(config.PlayersMax, convey.ShouldEqual, 6)
		convey.So(config.PlayerDist, convey.ShouldResemble, []int{2, 4, 6})
		convey.So(config.Dynamics, convey.ShouldAlmostEqual, 0.5, 1e-9)

		convey.Convey("Untouched keys keep their defaults", func() {
			convey.So(config.MapDist, convey.ShouldResemble, Default().MapDist)
			convey.So(config.KeepReplays, convey.ShouldBeTrue)
		})
	})

	convey.Convey("Environment variables override the file", t, func() {
		path := writeConfig(t, "turn_limit: 250\n")
		t.Setenv("ARENA_TURN_LIMIT", "400")
		t.Setenv("ARENA_ENGINE", "/usr/local/bin/halite")

		config, err := load(path)

		convey.So(err, convey.ShouldBeNil)
		convey.So(config.TurnLimit, convey.ShouldEqual, 400)
		convey.So(config.Engine, convey.ShouldEqual, "/usr/local/bin/halite")
	})

	convey.Convey("ARENA_CONFIG itself never leaks into the configuration", t, func() {
		// t.Setenv from the previous Convey block persists until the whole
		// test ends, so drop those variables before asserting on a clean
		// environment.
		os.Unsetenv("ARENA_TURN_LIMIT")
		os.Unsetenv("ARENA_ENGINE")
		t.Setenv("ARENA_CONFIG", "/nowhere/special.yaml")

		config, err := load("")

		convey.So(err, convey.ShouldBeNil)
		convey.So(config, convey.ShouldResemble, Default())
	})

	convey.Convey("Bad values are rejected", t, func() {
		cases := map[string]string{
			"players_min too small": "players_min: 1\n",
			"inverted player range": "players_min: 4\nplayers_max: 2\n",
			"negative dynamics":     "dynamics_factor: -1.0\n",
		}

		for about, contents := range cases {
			convey.Convey(about, func() {
				_, err := load(writeConfig(t, contents))
				convey.So(err, convey.ShouldNotBeNil)
			})
		}
	})

	convey.Convey("An unreadable file is an error", t, func() {
		_, err := load("/nowhere/arena.yaml")
		convey.So(err, convey.ShouldNotBeNil)
	})
}
