package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"laptudirm.com/x/arena/pkg/bvb/match"
	"laptudirm.com/x/arena/pkg/bvb/rating"
	"laptudirm.com/x/arena/pkg/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "arena.sqlite3"))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestPlayerRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	if err := st.AddPlayer(ctx, "alpha", "./bots/alpha"); err != nil {
		t.Fatalf("AddPlayer() = %v", err)
	}

	player, err := st.Player(ctx, "alpha")
	if err != nil {
		t.Fatalf("Player() = %v", err)
	}

	if player.Mu != rating.DefaultMu || player.Sigma != rating.DefaultSigma {
		t.Errorf("fresh belief = (%v, %v)", player.Mu, player.Sigma)
	}
	if player.Rank != store.DefaultRank || player.Games != 0 || !player.Active {
		t.Errorf("fresh player = %+v", player)
	}

	// Mutate through a rated round and read it back.
	player.ApplyBelief(rating.Belief{Mu: 28.5, Sigma: 6.25})
	if err := st.SavePlayer(ctx, player); err != nil {
		t.Fatalf("SavePlayer() = %v", err)
	}

	saved, err := st.Player(ctx, "alpha")
	if err != nil {
		t.Fatalf("Player() = %v", err)
	}

	if saved.Mu != 28.5 || saved.Sigma != 6.25 || saved.Games != 1 {
		t.Errorf("saved player = %+v", saved)
	}
	if saved.Skill != 28.5-3*6.25 {
		t.Errorf("Skill = %v, want mu - 3 sigma", saved.Skill)
	}
	if saved.LastSeen.IsZero() || time.Since(saved.LastSeen) > time.Minute {
		t.Errorf("LastSeen = %v", saved.LastSeen)
	}
}

func TestPlayerLifecycle(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	if err := st.AddPlayer(ctx, "alpha", "a"); err != nil {
		t.Fatal(err)
	}

	t.Run("duplicate names rejected", func(t *testing.T) {
		if err := st.AddPlayer(ctx, "alpha", "elsewhere"); err == nil {
			t.Error("AddPlayer() accepted a duplicate name")
		}
	})

	t.Run("path edit", func(t *testing.T) {
		if err := st.UpdatePath(ctx, "alpha", "./v2/alpha"); err != nil {
			t.Fatal(err)
		}
		player, _ := st.Player(ctx, "alpha")
		if player.Path != "./v2/alpha" {
			t.Errorf("Path = %q", player.Path)
		}
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		if err := st.SetActive(ctx, "alpha", false); err != nil {
			t.Fatal(err)
		}
		if active, _ := st.ActivePlayers(ctx); len(active) != 0 {
			t.Errorf("ActivePlayers() = %d players, want 0", len(active))
		}
		if err := st.SetActiveAll(ctx, true); err != nil {
			t.Fatal(err)
		}
		if active, _ := st.ActivePlayers(ctx); len(active) != 1 {
			t.Errorf("ActivePlayers() = %d players, want 1", len(active))
		}
	})

	t.Run("reset keeps identity, drops record", func(t *testing.T) {
		player, _ := st.Player(ctx, "alpha")
		player.ApplyBelief(rating.Belief{Mu: 30, Sigma: 2})
		if err := st.SavePlayer(ctx, player); err != nil {
			t.Fatal(err)
		}

		if err := st.ResetPlayer(ctx, "alpha"); err != nil {
			t.Fatal(err)
		}

		reset, _ := st.Player(ctx, "alpha")
		if reset.Mu != rating.DefaultMu || reset.Games != 0 {
			t.Errorf("reset player = %+v", reset)
		}
		if reset.Path != "./v2/alpha" || !reset.Active {
			t.Errorf("reset changed identity: %+v", reset)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := st.DeletePlayer(ctx, "alpha"); err != nil {
			t.Fatal(err)
		}
		if _, err := st.Player(ctx, "alpha"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Player() after delete = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing players are reported", func(t *testing.T) {
		if err := st.SetActive(ctx, "ghost", true); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("SetActive(ghost) = %v, want ErrNotFound", err)
		}
	})
}

func TestUpdateRanks(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	for _, bot := range []struct {
		name  string
		skill float64
	}{
		{"weak", 1.5},
		{"strong", 20.0},
		{"middling", 10.0},
		{"also-middling", 10.0},
	} {
		if err := st.AddPlayer(ctx, bot.name, bot.name); err != nil {
			t.Fatal(err)
		}
		player, _ := st.Player(ctx, bot.name)
		player.Mu = bot.skill // sigma 0 so skill == mu
		player.Sigma = 0
		player.UpdateSkill()
		if err := st.SavePlayer(ctx, player); err != nil {
			t.Fatal(err)
		}
	}

	ranks := func() map[string]int {
		t.Helper()
		players, err := st.Players(ctx)
		if err != nil {
			t.Fatal(err)
		}
		out := make(map[string]int, len(players))
		for _, p := range players {
			out[p.Name] = p.Rank
		}
		return out
	}

	if err := st.UpdateRanks(ctx); err != nil {
		t.Fatalf("UpdateRanks() = %v", err)
	}
	first := ranks()

	want := map[string]int{"strong": 1, "also-middling": 2, "middling": 3, "weak": 4}
	for name, rank := range want {
		if first[name] != rank {
			t.Errorf("rank[%s] = %d, want %d", name, first[name], rank)
		}
	}

	// Recomputing without rating changes must not shuffle anybody.
	if err := st.UpdateRanks(ctx); err != nil {
		t.Fatalf("UpdateRanks() = %v", err)
	}
	second := ranks()
	for name := range want {
		if first[name] != second[name] {
			t.Errorf("rank[%s] changed on recomputation: %d -> %d", name, first[name], second[name])
		}
	}
}

func testMatch(names ...string) *match.Match {
	contestants := make([]match.Contestant, len(names))
	results := make([]match.Placement, len(names))
	for i, name := range names {
		contestants[i] = match.Contestant{Name: name, Path: name}
		results[i] = match.Placement{Rank: i + 1, Score: 100 - i}
	}
	return &match.Match{
		Contestants: contestants,
		Width:       40, Height: 40, Seed: 1234,
		Generator:  "basic",
		Results:    results,
		Terminated: map[int]bool{},
		ReplayFile: "replays/1234.hlt",
		Logs:       map[int]string{},
		PlayedAt:   time.Now(),
	}
}

func TestMatchHistory(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	first, err := st.AppendMatch(ctx, testMatch("alpha", "beta"), "run-1")
	if err != nil {
		t.Fatalf("AppendMatch() = %v", err)
	}
	second, err := st.AppendMatch(ctx, testMatch("gamma", "alpha", "beta"), "run-1")
	if err != nil {
		t.Fatalf("AppendMatch() = %v", err)
	}

	if first != 1 || second != 2 {
		t.Errorf("game ids = %d, %d, want 1, 2", first, second)
	}

	t.Run("paging, newest first", func(t *testing.T) {
		page, err := st.Results(ctx, 0, 1)
		if err != nil {
			t.Fatalf("Results() = %v", err)
		}
		if len(page) != 1 || page[0].GameID != second {
			t.Fatalf("Results() = %+v, want game #%d", page, second)
		}
		if page[0].Names != "gamma, alpha, beta" {
			t.Errorf("Names = %q", page[0].Names)
		}

		rest, err := st.Results(ctx, 1, 10)
		if err != nil {
			t.Fatalf("Results() = %v", err)
		}
		if len(rest) != 1 || rest[0].GameID != first {
			t.Fatalf("Results(offset 1) = %+v", rest)
		}
	})

	t.Run("relative replay lookup", func(t *testing.T) {
		id, replay, err := st.ReplayFilename(ctx, 0)
		if err != nil {
			t.Fatalf("ReplayFilename(0) = %v", err)
		}
		if id != second || replay != "replays/1234.hlt" {
			t.Errorf("ReplayFilename(0) = %d, %q", id, replay)
		}

		id, _, err = st.ReplayFilename(ctx, -1)
		if err != nil || id != first {
			t.Errorf("ReplayFilename(-1) = %d, %v", id, err)
		}

		if _, _, err := st.ReplayFilename(ctx, 99); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("ReplayFilename(99) = %v, want ErrNotFound", err)
		}
	})
}

func TestOptionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	opts, err := st.Options(ctx)
	if err != nil {
		t.Fatalf("Options() = %v", err)
	}
	if opts != (store.Options{}) {
		t.Errorf("initial options = %+v, want zero", opts)
	}

	want := store.Options{
		RecordDir:  "/data/replays",
		EngineCmd:  "./halite",
		Visualizer: "viewer FILENAME",
	}
	if err := st.SetOptions(ctx, want); err != nil {
		t.Fatalf("SetOptions() = %v", err)
	}

	got, err := st.Options(ctx)
	if err != nil {
		t.Fatalf("Options() = %v", err)
	}
	if got != want {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}
}
