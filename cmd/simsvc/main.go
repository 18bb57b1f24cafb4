package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"os"
	"sync"

	"go.uber.org/zap"

	"battlesim/internal/battle"
	"battlesim/internal/config"
	"battlesim/internal/content"
	"battlesim/internal/util"
)

type runOutcome struct {
	Result   string                `json:"result"`
	Turns    int                   `json:"turns"`
	Actions  int                   `json:"actions"`
	PlayerHP int                   `json:"player_hp"`
	EnemyHP  int                   `json:"enemy_hp"`
	History  []battle.HistoryEntry `json:"history,omitempty"`
	Vector   []float32             `json:"state_vector,omitempty"`
}

func main() {
	var dataDir, scenarioPath, simPath, out string
	var seed int64
	var n, workers int
	var saveLog, saveVector bool
	flag.StringVar(&dataDir, "data", "assets/battle", "content pack dir")
	flag.StringVar(&scenarioPath, "scenario", "assets/scenario.yaml", "scenario file")
	flag.StringVar(&simPath, "sim", "", "batch settings file (overrides -n and -workers)")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&seed, "seed", 0, "seed override (0 = scenario seed)")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&workers, "workers", 8, "batch worker count")
	flag.BoolVar(&saveLog, "log", true, "save full action history when n==1")
	flag.BoolVar(&saveVector, "vector", false, "include final state vector when n==1")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := content.Load(dataDir)
	if err != nil {
		logger.Fatal("load content pack", zap.String("dir", dataDir), zap.Error(err))
	}
	scenario, err := config.LoadScenario(scenarioPath)
	if err != nil {
		logger.Fatal("load scenario", zap.String("path", scenarioPath), zap.Error(err))
	}
	if seed == 0 {
		seed = scenario.Seed
	}
	maxTurns := scenario.MaxTurns
	if simPath != "" {
		sim, err := config.LoadSim(simPath)
		if err != nil {
			logger.Fatal("load sim settings", zap.String("path", simPath), zap.Error(err))
		}
		n = sim.Runs
		workers = sim.Workers
		if sim.MaxTurns > 0 {
			maxTurns = sim.MaxTurns
		}
	}

	if n <= 1 {
		b, err := newBattle(store, scenario, seed)
		if err != nil {
			logger.Fatal("build battle", zap.Error(err))
		}
		outcome := runBattle(b, util.New(seed+1), maxTurns)
		if !saveLog {
			outcome.History = nil
		}
		if saveVector {
			outcome.Vector = b.StateVector()
		}
		if err := os.WriteFile(out, marshalPretty(outcome), 0644); err != nil {
			logger.Fatal("write output", zap.Error(err))
		}
		logger.Info("single run finished",
			zap.String("result", outcome.Result),
			zap.Int("turns", outcome.Turns),
			zap.Int("actions", outcome.Actions),
			zap.String("out", out))
		return
	}

	type stat struct {
		PlayerWins int
		EnemyWins  int
		Stalled    int
		SumTurns   int
		SumActions int
	}
	var st stat
	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				runSeed := seed + int64(workerID)*7919 + int64(i)
				b, err := newBattle(store, scenario, runSeed)
				if err != nil {
					logger.Error("build battle", zap.Error(err))
					continue
				}
				outcome := runBattle(b, util.New(runSeed+1), maxTurns)

				mu.Lock()
				switch outcome.Result {
				case battle.ResultPlayerWin.String():
					st.PlayerWins++
				case battle.ResultEnemyWin.String():
					st.EnemyWins++
				default:
					st.Stalled++
				}
				st.SumTurns += outcome.Turns
				st.SumActions += outcome.Actions
				mu.Unlock()
			}
		}(w)
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := map[string]any{
		"runs":            n,
		"player_win_rate": float64(st.PlayerWins) / float64(n),
		"enemy_win_rate":  float64(st.EnemyWins) / float64(n),
		"stalled":         st.Stalled,
		"avg_turns":       float64(st.SumTurns) / float64(n),
		"avg_actions":     float64(st.SumActions) / float64(n),
	}
	if err := os.WriteFile(out, marshalPretty(summary), 0644); err != nil {
		logger.Fatal("write summary", zap.Error(err))
	}
	logger.Info("batch finished", zap.Int("runs", n), zap.String("out", out))
}

func newBattle(store *content.Store, sc *config.Scenario, seed int64) (*battle.Battle, error) {
	opts := battle.Options{
		Seed:          seed,
		Deterministic: sc.Deterministic,
		EnvMods:       envMods(sc),
	}
	if sc.EncounterID > 0 {
		ids := make([]int, len(sc.Player))
		ranks := make([]int, len(sc.Player))
		for i, p := range sc.Player {
			ids[i] = p.UnitID
			ranks[i] = p.Rank
		}
		return battle.NewFromEncounter(store, sc.EncounterID, ids, ranks, opts)
	}
	return battle.New(store, sc.LayoutID, placements(sc.Player), placements(sc.Enemy), opts)
}

func placements(in []config.UnitPlacement) []battle.Placement {
	out := make([]battle.Placement, len(in))
	for i, p := range in {
		out[i] = battle.Placement{UnitID: p.UnitID, GridID: p.GridID, Rank: p.Rank}
	}
	return out
}

func envMods(sc *config.Scenario) map[content.DamageType]float64 {
	if len(sc.EnvMods) == 0 {
		return nil
	}
	mods := make(map[content.DamageType]float64, len(sc.EnvMods))
	for id, m := range sc.EnvMods {
		mods[content.DamageType(id)] = m
	}
	return mods
}

// runBattle plays both sides with a uniform random policy until a
// terminal state or the turn cap.
func runBattle(b *battle.Battle, policyRng *rand.Rand, maxTurns int) runOutcome {
	actions := 0
	for b.Result() == battle.ResultInProgress && b.Turn() < maxTurns {
		legal := b.LegalActions()
		if len(legal) > 0 {
			b.ExecuteAction(legal[policyRng.Intn(len(legal))])
			actions++
		}
		b.EndTurn()

		if b.Result() == battle.ResultInProgress &&
			b.SideDefeated(content.SidePlayer.Opponent()) && b.WavesRemaining() > 0 {
			b.SpawnWave()
		}
	}

	return runOutcome{
		Result:   b.Result().String(),
		Turns:    b.Turn(),
		Actions:  actions,
		PlayerHP: totalHP(b.PlayerUnits()),
		EnemyHP:  totalHP(b.EnemyUnits()),
		History:  b.History(),
	}
}

func totalHP(units []*battle.Unit) int {
	total := 0
	for _, u := range units {
		total += u.HP
	}
	return total
}

func marshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
