package services

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"petpal/models"
)

func newTestSimulator(f *Progression) *ActivitySimulator {
	return NewSimulator(f, time.Millisecond, rand.New(rand.NewSource(1)))
}

func TestTickTouchesOnlyBots(t *testing.T) {
	f := newTestFacade()
	real := registerPlayer(f, "real")
	f.RegisterProfile(models.PlayerProfile{
		ID: "bot1", Username: "MilkyWay", IsBot: true,
		Level: 5, RankPoints: 100,
		JoinDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	sim := newTestSimulator(f)
	for i := 0; i < 50; i++ {
		sim.Tick()
	}

	after, err := f.Profile("real")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(real, after) {
		t.Errorf("real profile changed by simulator:\nbefore %+v\nafter  %+v", real, after)
	}
}

func TestTickPerturbationBounded(t *testing.T) {
	f := newTestFacade()
	f.RegisterProfile(models.PlayerProfile{
		ID: "bot1", Username: "SirFluff", IsBot: true, RankPoints: 100,
	})

	sim := newTestSimulator(f)
	prev := 100
	for i := 0; i < 100; i++ {
		sim.Tick()
		p, _ := f.Profile("bot1")
		delta := p.RankPoints - prev
		if delta < -5 || delta > 25 {
			t.Fatalf("tick %d: delta %d out of [-5, 25]", i, delta)
		}
		prev = p.RankPoints
	}
}

func TestTickFloorsPointsAtZero(t *testing.T) {
	f := newTestFacade()
	f.RegisterProfile(models.PlayerProfile{
		ID: "bot1", Username: "Nimbus", IsBot: true, RankPoints: 0,
	})

	sim := newTestSimulator(f)
	for i := 0; i < 200; i++ {
		sim.Tick()
		p, _ := f.Profile("bot1")
		if p.RankPoints < 0 {
			t.Fatalf("tick %d: rank points went negative (%d)", i, p.RankPoints)
		}
	}
}

func TestStartStop(t *testing.T) {
	f := newTestFacade()
	f.RegisterProfile(models.PlayerProfile{
		ID: "bot1", Username: "Pixel", IsBot: true, RankPoints: 100,
	})

	sim := newTestSimulator(f)
	sim.Start()
	sim.Start() // second start is a no-op
	time.Sleep(20 * time.Millisecond)
	sim.Stop()
	sim.Stop() // second stop is a no-op

	// Stop waits for the loop to exit, so no further ticks mutate state.
	p1, _ := f.Profile("bot1")
	time.Sleep(10 * time.Millisecond)
	p2, _ := f.Profile("bot1")
	if p1.RankPoints != p2.RankPoints {
		t.Error("simulator kept mutating after Stop")
	}
}
